package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vidtube/internal/config"
	"vidtube/internal/edge"
	"vidtube/internal/model"
	"vidtube/internal/query"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
)

// =============================================================================
// FAKE REPOSITORIES
// =============================================================================
//
// Services depend on repository interfaces, so tests swap in in-memory fakes.
// Each fake keeps just enough state to exercise the service logic.

func emptyPage[T any](p query.Paginate) *model.Page[T] {
	return &model.Page[T]{Items: []T{}, Page: p.Page, Limit: p.Limit}
}

// --- users ------------------------------------------------------------------

type fakeUsers struct {
	users   map[int64]*model.User
	nextID  int64
	history []int64
	creds   *fakeCreds

	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*model.User{}, nextID: 1}
}

func (f *fakeUsers) add(u *model.User) *model.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, req *model.RegisterRequest, passwordHash string) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := f.add(&model.User{
		Username:      req.Username,
		Email:         req.Email,
		FullName:      req.FullName,
		AvatarURL:     req.AvatarURL,
		AvatarKey:     &req.AvatarKey,
		CoverImageURL: req.CoverImageURL,
		CoverImageKey: req.CoverImageKey,
	})
	if f.creds != nil {
		f.creds.put(u, passwordHash)
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUsers) UpdateAccount(_ context.Context, id int64, fullName, email string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u.FullName, u.Email = fullName, email
	return u, nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id int64, url, key string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u.AvatarURL, u.AvatarKey = url, &key
	return u, nil
}

func (f *fakeUsers) UpdateCoverImage(_ context.Context, id int64, url, key string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u.CoverImageURL, u.CoverImageKey = &url, &key
	return u, nil
}

func (f *fakeUsers) ChannelProfile(_ context.Context, username string, _ *int64) (*model.ChannelProfile, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &model.ChannelProfile{ID: u.ID, Username: u.Username}, nil
		}
	}
	return nil, model.ErrChannelNotFound
}

func (f *fakeUsers) SearchChannels(_ context.Context, _ string, _ int) ([]model.UserSummary, error) {
	return []model.UserSummary{}, nil
}

func (f *fakeUsers) AddToWatchHistory(_ context.Context, _ int64, videoID int64) error {
	f.history = append(f.history, videoID)
	return nil
}

func (f *fakeUsers) WatchHistory(_ context.Context, _ int64, p query.Paginate) (*model.Page[model.WatchHistoryEntry], error) {
	return emptyPage[model.WatchHistoryEntry](p), nil
}

// --- credentials --------------------------------------------------------------

// fakeCreds mirrors the conditional-update semantics of the SQL store.
type fakeCreds struct {
	mu    sync.Mutex
	rows  map[int64]*model.Credentials
	login map[string]int64
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{rows: map[int64]*model.Credentials{}, login: map[string]int64{}}
}

func (f *fakeCreds) put(u *model.User, passwordHash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[u.ID] = &model.Credentials{UserID: u.ID, PasswordHash: passwordHash}
	f.login[u.Username] = u.ID
	f.login[u.Email] = u.ID
}

func (f *fakeCreds) GetByLogin(_ context.Context, username, email string) (*model.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range []string{username, email} {
		if id, ok := f.login[k]; ok && k != "" {
			cp := *f.rows[id]
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeCreds) GetByUserID(_ context.Context, userID int64) (*model.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.rows[userID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeCreds) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID].PasswordHash = passwordHash
	return nil
}

func (f *fakeCreds) SetRefreshHash(_ context.Context, userID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID].RefreshTokenHash = &hash
	return nil
}

func (f *fakeCreds) SwapRefreshHash(_ context.Context, userID int64, oldHash, newHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[userID]
	if !ok || c.RefreshTokenHash == nil || *c.RefreshTokenHash != oldHash {
		return false, nil
	}
	c.RefreshTokenHash = &newHash
	return true, nil
}

func (f *fakeCreds) ClearRefreshHash(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID].RefreshTokenHash = nil
	return nil
}

// --- videos -------------------------------------------------------------------

type fakeVideos struct {
	videos   map[int64]*model.Video
	nextID   int64
	listFn   func(f repository.VideoFilter) (*model.Page[model.Video], error)
	listSeen []repository.VideoFilter
	views    map[int64]int
}

func newFakeVideos() *fakeVideos {
	return &fakeVideos{videos: map[int64]*model.Video{}, nextID: 1, views: map[int64]int{}}
}

func (f *fakeVideos) add(v *model.Video) *model.Video {
	v.ID = f.nextID
	f.nextID++
	f.videos[v.ID] = v
	return v
}

func (f *fakeVideos) Create(_ context.Context, v *model.Video) error {
	f.add(v)
	return nil
}

func (f *fakeVideos) GetByID(_ context.Context, id int64) (*model.Video, error) {
	if v, ok := f.videos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, model.ErrVideoNotFound
}

func (f *fakeVideos) GetDetail(ctx context.Context, id int64, _ *int64) (*model.VideoDetail, error) {
	v, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.VideoDetail{Video: *v}, nil
}

func (f *fakeVideos) IncrementViews(_ context.Context, id int64) error {
	f.views[id]++
	f.videos[id].Views++
	return nil
}

func (f *fakeVideos) Update(_ context.Context, v *model.Video) error {
	cp := *v
	f.videos[v.ID] = &cp
	return nil
}

func (f *fakeVideos) SetPublished(_ context.Context, id int64, published bool) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	v.IsPublished = published
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) Delete(_ context.Context, id int64) error {
	if _, ok := f.videos[id]; !ok {
		return model.ErrVideoNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideos) List(_ context.Context, filter repository.VideoFilter) (*model.Page[model.Video], error) {
	f.listSeen = append(f.listSeen, filter)
	if f.listFn != nil {
		return f.listFn(filter)
	}
	return emptyPage[model.Video](filter.Page), nil
}

// --- comments / tweets --------------------------------------------------------

type fakeComments struct {
	comments map[int64]*model.Comment
	nextID   int64
	listed   int
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: map[int64]*model.Comment{}, nextID: 1}
}

func (f *fakeComments) Create(_ context.Context, videoID, ownerID int64, content string) (*model.Comment, error) {
	c := &model.Comment{ID: f.nextID, VideoID: videoID, OwnerID: ownerID, Content: content}
	f.nextID++
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeComments) GetByID(_ context.Context, id int64) (*model.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, model.ErrCommentNotFound
}

func (f *fakeComments) Update(_ context.Context, id int64, content string) (*model.Comment, error) {
	f.comments[id].Content = content
	return f.comments[id], nil
}

func (f *fakeComments) Delete(_ context.Context, id int64) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeComments) ListByVideo(_ context.Context, _ int64, _ *int64, _ query.Sort, p query.Paginate) (*model.Page[model.CommentView], error) {
	f.listed++
	return emptyPage[model.CommentView](p), nil
}

type fakeTweets struct {
	tweets map[int64]*model.Tweet
	nextID int64
}

func newFakeTweets() *fakeTweets {
	return &fakeTweets{tweets: map[int64]*model.Tweet{}, nextID: 1}
}

func (f *fakeTweets) Create(_ context.Context, ownerID int64, content string) (*model.Tweet, error) {
	t := &model.Tweet{ID: f.nextID, OwnerID: ownerID, Content: content}
	f.nextID++
	f.tweets[t.ID] = t
	return t, nil
}

func (f *fakeTweets) GetByID(_ context.Context, id int64) (*model.Tweet, error) {
	if t, ok := f.tweets[id]; ok {
		return t, nil
	}
	return nil, model.ErrTweetNotFound
}

func (f *fakeTweets) Update(_ context.Context, id int64, content string) (*model.Tweet, error) {
	f.tweets[id].Content = content
	return f.tweets[id], nil
}

func (f *fakeTweets) Delete(_ context.Context, id int64) error {
	delete(f.tweets, id)
	return nil
}

func (f *fakeTweets) ListByOwner(_ context.Context, _ int64, _ *int64, p query.Paginate) (*model.Page[model.TweetView], error) {
	return emptyPage[model.TweetView](p), nil
}

// --- edges --------------------------------------------------------------------

type fakeEdges[K comparable] struct {
	mu      sync.Mutex
	present map[K]bool
	calls   int
}

func newFakeEdges[K comparable]() *fakeEdges[K] {
	return &fakeEdges[K]{present: map[K]bool{}}
}

func (f *fakeEdges[K]) Exists(_ context.Context, k K) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.present[k], nil
}

func (f *fakeEdges[K]) Create(_ context.Context, k K) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.present[k] {
		return edge.ErrDuplicate
	}
	f.present[k] = true
	return nil
}

func (f *fakeEdges[K]) Delete(_ context.Context, k K) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	existed := f.present[k]
	delete(f.present, k)
	return existed, nil
}

type fakeSubs struct {
	*fakeEdges[model.SubscriptionKey]
}

func (fakeSubs) ListSubscribers(_ context.Context, _ int64, p query.Paginate) (*model.Page[model.SubscriptionEntry], error) {
	return emptyPage[model.SubscriptionEntry](p), nil
}

func (fakeSubs) ListSubscribedChannels(_ context.Context, _ int64, p query.Paginate) (*model.Page[model.SubscriptionEntry], error) {
	return emptyPage[model.SubscriptionEntry](p), nil
}

type fakeLikes struct {
	*fakeEdges[model.LikeKey]
}

func (fakeLikes) LikedVideos(_ context.Context, _ int64, _ *int64, p query.Paginate) (*model.Page[model.LikedVideo], error) {
	return emptyPage[model.LikedVideo](p), nil
}

// --- playlists ----------------------------------------------------------------

type fakePlaylists struct {
	playlists map[int64]*model.Playlist
	entries   map[int64][]int64
	videos    *fakeVideos
	nextID    int64
}

func newFakePlaylists(videos *fakeVideos) *fakePlaylists {
	return &fakePlaylists{playlists: map[int64]*model.Playlist{}, entries: map[int64][]int64{}, videos: videos, nextID: 1}
}

func (f *fakePlaylists) Create(_ context.Context, ownerID int64, name, description string) (*model.Playlist, error) {
	p := &model.Playlist{ID: f.nextID, OwnerID: ownerID, Name: name, Description: description}
	f.nextID++
	f.playlists[p.ID] = p
	return p, nil
}

func (f *fakePlaylists) GetByID(_ context.Context, id int64) (*model.Playlist, error) {
	if p, ok := f.playlists[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, model.ErrPlaylistNotFound
}

func (f *fakePlaylists) Update(_ context.Context, id int64, name, description string) (*model.Playlist, error) {
	p := f.playlists[id]
	p.Name, p.Description = name, description
	return p, nil
}

func (f *fakePlaylists) Delete(_ context.Context, id int64) error {
	delete(f.playlists, id)
	return nil
}

func (f *fakePlaylists) ListByOwner(_ context.Context, _ int64, p query.Paginate) (*model.Page[model.PlaylistSummary], error) {
	return emptyPage[model.PlaylistSummary](p), nil
}

func (f *fakePlaylists) Videos(_ context.Context, playlistID int64) ([]model.Video, error) {
	out := []model.Video{}
	for _, id := range f.entries[playlistID] {
		out = append(out, *f.videos.videos[id])
	}
	return out, nil
}

func (f *fakePlaylists) AddVideo(_ context.Context, playlistID, videoID int64) error {
	for _, id := range f.entries[playlistID] {
		if id == videoID {
			return model.ErrVideoAlreadyInList
		}
	}
	f.entries[playlistID] = append(f.entries[playlistID], videoID)
	return nil
}

func (f *fakePlaylists) RemoveVideo(_ context.Context, playlistID, videoID int64) error {
	ids := f.entries[playlistID]
	for i, id := range ids {
		if id == videoID {
			f.entries[playlistID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return model.ErrVideoNotInList
}

// =============================================================================
// FAKE COLLABORATORS
// =============================================================================

type fakeBlob struct {
	mu       sync.Mutex
	uploads  []model.MediaKind
	deleted  []string
	kinds    []model.MediaKind
	failKind model.MediaKind
	n        int
}

func (f *fakeBlob) Upload(_ context.Context, kind model.MediaKind, _ model.MediaFile) (*model.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == f.failKind {
		return nil, model.ErrUploadFailed
	}
	f.n++
	f.uploads = append(f.uploads, kind)
	key := kind.Folder() + "/" + string(rune('a'+f.n-1))
	return &model.UploadResult{URL: "https://cdn/" + key, Key: key}, nil
}

func (f *fakeBlob) Delete(_ context.Context, key string, kind model.MediaKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	f.kinds = append(f.kinds, kind)
	return nil
}

type fakePublisher struct {
	events []queue.MediaEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event queue.MediaEvent) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, event)
	return "1-0", nil
}

type fakeStats struct {
	stored      map[int64]*model.ChannelStats
	invalidated []int64
	getErr      error
}

func newFakeStats() *fakeStats {
	return &fakeStats{stored: map[int64]*model.ChannelStats{}}
}

func (f *fakeStats) Get(_ context.Context, id int64) (*model.ChannelStats, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	s, ok := f.stored[id]
	return s, ok, nil
}

func (f *fakeStats) Set(_ context.Context, id int64, s *model.ChannelStats) error {
	f.stored[id] = s
	return nil
}

func (f *fakeStats) Invalidate(_ context.Context, id int64) error {
	f.invalidated = append(f.invalidated, id)
	delete(f.stored, id)
	return nil
}

type fakeDashboard struct {
	stats *model.ChannelStats
	reads int
}

func (f *fakeDashboard) ChannelStats(_ context.Context, _ int64) (*model.ChannelStats, error) {
	f.reads++
	if f.stats == nil {
		return nil, errors.New("no stats")
	}
	return f.stats, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 864000,
	}
}

func file() model.MediaFile {
	return model.MediaFile{Reader: strings.NewReader("x"), ContentType: "image/png", Size: 1}
}
