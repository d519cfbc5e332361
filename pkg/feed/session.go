package feed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCallTimeout bounds each remote call made by a Session.
const DefaultCallTimeout = 10 * time.Second

// ErrSessionClosed is returned by every operation after Close.
var ErrSessionClosed = errors.New("feed: session closed")

// Session holds a viewer's local view of the feed: a normalized post map
// with derived feed ordering and detail views, a per-post comment cache, and
// a per-post pending set guarding in-flight like toggles.
//
// Interactions are applied optimistically and reconciled against the remote
// outcome: a failed like toggle refetches the post, failed comment mutations
// restore a pre-mutation snapshot. All methods are safe for concurrent use;
// the mutex is never held across a remote call.
type Session struct {
	store    RemoteStore
	viewerID uint
	timeout  time.Duration

	mu       sync.Mutex
	posts    map[uint]*Post
	order    map[Scope][]uint
	scope    Scope
	detailID uint
	comments map[uint][]Comment
	pending  map[uint]struct{}
	closed   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCallTimeout sets the per-call timeout applied on top of the caller's
// context.
func WithCallTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.timeout = d }
}

// NewSession creates a session for the given viewer. viewerID 0 means an
// unauthenticated viewer: reads work, mutations return
// ErrAuthenticationRequired.
func NewSession(store RemoteStore, viewerID uint, opts ...SessionOption) *Session {
	s := &Session{
		store:    store,
		viewerID: viewerID,
		timeout:  DefaultCallTimeout,
		posts:    make(map[uint]*Post),
		order:    make(map[Scope][]uint),
		comments: make(map[uint][]Comment),
		pending:  make(map[uint]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close tears the session down. Cached state is dropped and every later
// operation fails with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.posts = nil
	s.order = nil
	s.comments = nil
	s.pending = nil
	s.detailID = 0
}

func (s *Session) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

// absorb stores a copy of p in the normalized map. Callers hold s.mu.
func (s *Session) absorb(p Post) {
	clone := p
	s.posts[p.ID] = &clone
}

func (s *Session) checkOpen() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) requireViewer() error {
	if s.viewerID == 0 {
		return ErrAuthenticationRequired
	}
	return nil
}

// Refresh replaces the cached feed for the given scope with the remote
// list, newest first. Posts already cached under other scopes or the detail
// slot are kept and updated in place.
func (s *Session) Refresh(ctx context.Context, scope Scope) error {
	if !scope.valid() {
		return &ValidationError{Field: "scope", Message: "must be personal or public"}
	}
	if scope == ScopePersonal && s.viewerID == 0 {
		return ErrAuthenticationRequired
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	posts, err := s.store.ListPosts(cctx, scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		s.absorb(p)
		ids = append(ids, p.ID)
	}
	s.order[scope] = ids
	s.scope = scope
	return nil
}

// Posts returns the cached feed for the given scope in refresh order.
// The returned posts are copies.
func (s *Session) Posts(scope Scope) []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	ids := s.order[scope]
	out := make([]Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// Post returns the post currently in the detail slot, if any.
func (s *Session) Post() (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.detailID == 0 {
		return Post{}, false
	}
	p, ok := s.posts[s.detailID]
	if !ok {
		return Post{}, false
	}
	return *p, true
}

// FetchPost loads a single post from the remote store and points the detail
// slot at it.
func (s *Session) FetchPost(ctx context.Context, postID uint) (Post, error) {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	p, err := s.store.GetPost(cctx, postID)
	if err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return Post{}, err
	}
	s.absorb(*p)
	s.detailID = p.ID
	return *p, nil
}

// CloseDetail clears the detail slot. The post stays in the feed cache.
func (s *Session) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailID = 0
}

// CreatePost creates a post and refreshes the current feed scope so the new
// entry appears with its server-computed fields.
func (s *Session) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	if err := s.requireViewer(); err != nil {
		return Post{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return Post{}, &ValidationError{Field: "title", Message: "must not be empty"}
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	created, err := s.store.CreatePost(cctx, in)
	if err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return Post{}, err
	}
	s.absorb(*created)
	scope := s.scope
	s.mu.Unlock()

	if scope.valid() {
		if err := s.Refresh(ctx, scope); err != nil {
			return *created, err
		}
	}
	return *created, nil
}

// UpdatePost applies a partial update and refreshes the current feed scope.
func (s *Session) UpdatePost(ctx context.Context, postID uint, in PostUpdate) (Post, error) {
	if err := s.requireViewer(); err != nil {
		return Post{}, err
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	updated, err := s.store.UpdatePost(cctx, postID, in)
	if err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return Post{}, err
	}
	s.absorb(*updated)
	scope := s.scope
	s.mu.Unlock()

	if scope.valid() {
		if err := s.Refresh(ctx, scope); err != nil {
			return *updated, err
		}
	}
	return *updated, nil
}

// DeletePost deletes the post remotely and drops it from the cache without
// a refetch.
func (s *Session) DeletePost(ctx context.Context, postID uint) error {
	if err := s.requireViewer(); err != nil {
		return err
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.store.DeletePost(cctx, postID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.evict(postID)
	return nil
}

// evict removes a post from the map and every derived view. Callers hold
// s.mu.
func (s *Session) evict(postID uint) {
	delete(s.posts, postID)
	delete(s.comments, postID)
	for scope, ids := range s.order {
		s.order[scope] = removeID(ids, postID)
	}
	if s.detailID == postID {
		s.detailID = 0
	}
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ToggleLike flips the viewer's like on a post. The flip is applied to the
// cached post before the remote call; every derived view sees it at once. A
// toggle for a post whose previous toggle is still pending is dropped
// silently. On remote failure the post is refetched so the cache settles on
// the server's state rather than the optimistic guess.
func (s *Session) ToggleLike(ctx context.Context, postID uint) error {
	if err := s.requireViewer(); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, inFlight := s.pending[postID]; inFlight {
		s.mu.Unlock()
		return nil
	}
	s.pending[postID] = struct{}{}
	if p, ok := s.posts[postID]; ok {
		flipLike(p)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.pending != nil {
			delete(s.pending, postID)
		}
		s.mu.Unlock()
	}()

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if _, err := s.store.ToggleLike(cctx, postID); err != nil {
		s.resyncPost(postID)
		return err
	}
	return nil
}

func flipLike(p *Post) {
	if p.UserHasLiked {
		p.UserHasLiked = false
		if p.LikeCount > 0 {
			p.LikeCount--
		}
	} else {
		p.UserHasLiked = true
		p.LikeCount++
	}
}

// resyncPost refetches a post after a failed optimistic mutation. It runs on
// a fresh timeout so the rollback still happens when the caller's context
// has already expired.
func (s *Session) resyncPost(postID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	p, err := s.store.GetPost(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	switch {
	case err == nil:
		s.absorb(*p)
	case IsNotFound(err):
		s.evict(postID)
	}
}

// Comments returns the cached comment list for a post, oldest first.
func (s *Session) Comments(postID uint) []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	cached := s.comments[postID]
	out := make([]Comment, len(cached))
	copy(out, cached)
	return out
}

// FetchComments replaces a post's cached comment list with the remote one,
// ordered by creation time ascending.
func (s *Session) FetchComments(ctx context.Context, postID uint) ([]Comment, error) {
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	comments, err := s.store.ListComments(cctx, postID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	s.comments[postID] = comments
	out := make([]Comment, len(comments))
	copy(out, comments)
	return out, nil
}

// AddComment posts a comment and, on success, appends the server row to the
// cached list and bumps the post's comment count. Nothing is mutated before
// the remote call succeeds, so there is no rollback path.
func (s *Session) AddComment(ctx context.Context, postID uint, content string, parentID *uint) (Comment, error) {
	if err := s.requireViewer(); err != nil {
		return Comment{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Comment{}, &ValidationError{Field: "content", Message: "must not be empty"}
	}

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	created, err := s.store.CreateComment(cctx, postID, CommentInput{
		Content:         content,
		ParentCommentID: parentID,
	})
	if err != nil {
		return Comment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return Comment{}, err
	}
	s.comments[postID] = append(s.comments[postID], *created)
	if p, ok := s.posts[postID]; ok {
		p.CommentCount++
	}
	return *created, nil
}

// UpdateComment rewrites a comment's text optimistically and restores the
// pre-mutation snapshot if the remote call fails.
func (s *Session) UpdateComment(ctx context.Context, postID, commentID uint, content string) error {
	if err := s.requireViewer(); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "must not be empty"}
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := snapshotComments(s.comments[postID])
	for i := range s.comments[postID] {
		if s.comments[postID][i].ID == commentID {
			s.comments[postID][i].Content = content
			break
		}
	}
	s.mu.Unlock()

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	updated, err := s.store.UpdateComment(cctx, postID, commentID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cerr := s.checkOpen(); cerr != nil {
		return cerr
	}
	if err != nil {
		s.comments[postID] = snapshot
		return err
	}
	for i := range s.comments[postID] {
		if s.comments[postID][i].ID == commentID {
			s.comments[postID][i] = *updated
			break
		}
	}
	return nil
}

// DeleteComment removes a comment optimistically, decrementing the post's
// comment count, and restores both from a snapshot if the remote call fails.
func (s *Session) DeleteComment(ctx context.Context, postID, commentID uint) error {
	if err := s.requireViewer(); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := snapshotComments(s.comments[postID])
	prevCount := -1
	filtered := s.comments[postID][:0:0]
	for _, cm := range s.comments[postID] {
		if cm.ID != commentID {
			filtered = append(filtered, cm)
		}
	}
	s.comments[postID] = filtered
	if p, ok := s.posts[postID]; ok {
		prevCount = p.CommentCount
		if p.CommentCount > 0 {
			p.CommentCount--
		}
	}
	s.mu.Unlock()

	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	err := s.store.DeleteComment(cctx, postID, commentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if cerr := s.checkOpen(); cerr != nil {
		return cerr
	}
	if err != nil {
		s.comments[postID] = snapshot
		if p, ok := s.posts[postID]; ok && prevCount >= 0 {
			p.CommentCount = prevCount
		}
		return err
	}
	return nil
}

func snapshotComments(comments []Comment) []Comment {
	snapshot := make([]Comment, len(comments))
	copy(snapshot, comments)
	return snapshot
}
