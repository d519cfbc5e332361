package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/feed", r.URL.Path)
		assert.Equal(t, "personal", r.URL.Query().Get("scope"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Post{
			{ID: 2, Title: "Newest", LikeCount: 1},
			{ID: 1, Title: "Oldest"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	posts, err := c.ListPosts(context.Background(), ScopePersonal)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, uint(2), posts[0].ID)
	assert.Equal(t, 1, posts[0].LikeCount)
}

func TestClient_CreatePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in PostInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Goal", in.Title)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Post{ID: 5, Title: in.Title, ProfileID: 7})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	post, err := c.CreatePost(context.Background(), PostInput{Title: "Goal", PostType: "achievement"})
	require.NoError(t, err)
	assert.Equal(t, uint(5), post.ID)
}

func TestClient_ToggleLike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts/3/like", r.URL.Path)
		json.NewEncoder(w).Encode(Post{ID: 3, LikeCount: 4, UserHasLiked: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	post, err := c.ToggleLike(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, post.UserHasLiked)
	assert.Equal(t, 4, post.LikeCount)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Post not found",
			"code":  "NOT_FOUND",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	_, err := c.GetPost(context.Background(), 99)
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "NOT_FOUND", re.Code)
	assert.Equal(t, "Post not found", re.Message)
	assert.True(t, IsNotFound(err))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	err := c.DeletePost(context.Background(), 1)
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadGateway, re.Status)
}

func TestClient_DeleteComment_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/1/comments/10", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	assert.NoError(t, c.DeleteComment(context.Background(), 1, 10))
}

func TestClient_SetTokenDuringRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		assert.Contains(t, []string{"Bearer old-token", "Bearer new-token"}, auth)
		json.NewEncoder(w).Encode([]Post{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "old-token")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListPosts(context.Background(), ScopePublic)
			assert.NoError(t, err)
		}()
	}
	c.SetToken("new-token")
	wg.Wait()

	// Requests after the swap carry the new credential.
	assert.Equal(t, "new-token", c.bearerToken())
}

func TestClient_UnauthenticatedRequestOmitsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Post{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	posts, err := c.ListPosts(context.Background(), ScopePublic)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
