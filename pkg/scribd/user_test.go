package scribd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

// pagedList serves docs.getList over total documents numbered from 1.
func pagedList(total int) func(call apiCall) (int, string) {
	return func(call apiCall) (int, string) {
		offset, _ := strconv.Atoi(call.Values["offset"])
		limit, _ := strconv.Atoi(call.Values["limit"])
		if limit == 0 {
			limit = total
		}
		var ids []int
		for id := offset + 1; id <= total && len(ids) < limit; id++ {
			ids = append(ids, id)
		}
		return http.StatusOK, ok(docResults("resultset", ids...))
	}
}

func docIDs(docs []*Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID())
	}
	return ids
}

func TestUser_Identity(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1/api")

	api := c.APIUser()
	assert.Equal(t, "api_user", api.ID())
	assert.Equal(t, "user:api_user", api.Key())
	assert.Empty(t, api.SessionKey())
	assert.Same(t, c, api.Client())

	vu := mustVirtualUser(t, c, "alice@example.com")
	assert.Equal(t, "alice@example.com", vu.ID())
	assert.True(t, Equal(vu, mustVirtualUser(t, c, "alice@example.com")))
	assert.False(t, Equal(vu, api))

	require.NoError(t, vu.Set("my_user_id", "bob"))
	assert.Equal(t, "bob", vu.ID())
	assert.Error(t, vu.Set("my_user_id", ""))

	// my_user_id is an ordinary field on non-virtual users.
	require.NoError(t, api.Set("my_user_id", "x"))
	assert.Equal(t, "api_user", api.ID())
}

func TestUser_Entity(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	var e Entity = newUser(c, mustParse(t, `<rsp><user_id type="integer">5</user_id><username>jdoe</username></rsp>`))
	name, err := e.Get("username")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", name)

	require.NoError(t, e.Set("name", "Jane"))
	assert.Equal(t, "Jane", e.Snapshot()["name"])

	_, err = e.Get("email")
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	doc := c.APIUser().Document("5")
	assert.False(t, Equal(doc, e), "a document and a user with the same id differ")

	var v Entity = mustVirtualUser(t, c, "reader")
	assert.Equal(t, "user:reader", v.Key())
}

func TestClient_Login(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		switch call.Method {
		case "user.login":
			return http.StatusOK, ok(`<user_id type="integer">1234</user_id>` +
				`<username>jdoe</username><name>J. Doe</name><session_key>sess-1</session_key>`)
		default:
			return http.StatusOK, ok(docResults("resultset"))
		}
	})
	c := newTestClient(t, api.URL)

	u, err := c.Login(context.Background(), "jdoe", "pw")
	require.NoError(t, err)

	login := api.LastCall(t)
	assert.Equal(t, "jdoe", login.Values["username"])
	assert.Equal(t, "pw", login.Values["password"])
	assert.NotContains(t, login.Values, "session_key")

	assert.Equal(t, "1234", u.ID())
	assert.Equal(t, "sess-1", u.SessionKey())
	assert.False(t, u.Has("session_key"), "session key is not a resource field")
	name, _ := u.GetString("name")
	assert.Equal(t, "J. Doe", name)

	_, err = u.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", api.LastCall(t).Values["session_key"])

	require.NoError(t, u.Set("session_key", "sess-2"))
	assert.Equal(t, "sess-2", u.SessionKey())
	assert.Error(t, u.Set("session_key", 5))
}

func TestClient_Signup(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<user_id>77</user_id><session_key>s</session_key>`)
	})
	c := newTestClient(t, api.URL)

	u, err := c.Signup(context.Background(), "new", "pw", "new@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "77", u.ID())

	call := api.LastCall(t)
	assert.Equal(t, "user.signup", call.Method)
	assert.Equal(t, "new@example.com", call.Values["email"])
	assert.NotContains(t, call.Values, "name")

	_, err = c.Signup(context.Background(), "new", "pw", "new@example.com", "New User")
	require.NoError(t, err)
	assert.Equal(t, "New User", api.LastCall(t).Values["name"])
}

func TestUser_List(t *testing.T) {
	api := newFakeAPI(t, pagedList(5))
	c := newTestClient(t, api.URL)
	u := c.APIUser()

	docs, err := u.List(context.Background(), ListOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, docIDs(docs))
	for _, d := range docs {
		assert.Same(t, u, d.Owner())
	}

	call := api.LastCall(t)
	assert.Equal(t, "docs.getList", call.Method)
	assert.Equal(t, "2", call.Values["limit"])
	assert.Equal(t, "1", call.Values["offset"])
	assert.NotContains(t, call.Values, "session_key")
	assert.NotContains(t, call.Values, "my_user_id")
}

func TestUser_ListAll(t *testing.T) {
	t.Run("pages until a short page", func(t *testing.T) {
		api := newFakeAPI(t, pagedList(5))
		c := newTestClient(t, api.URL)

		it := c.APIUser().ListAll(ListOptions{PageSize: 2})
		var ids []string
		for doc, err := range it.All(context.Background()) {
			require.NoError(t, err)
			ids = append(ids, doc.ID())
		}
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)

		calls := api.Calls()
		require.Len(t, calls, 3)
		assert.NotContains(t, calls[0].Values, "offset")
		assert.Equal(t, "2", calls[1].Values["offset"])
		assert.Equal(t, "4", calls[2].Values["offset"])
		for _, call := range calls {
			assert.Equal(t, "2", call.Values["limit"])
		}
		assert.Equal(t, 3, it.Pages())

		_, err := it.Next(context.Background())
		assert.ErrorIs(t, err, iterator.Done)
	})

	t.Run("exact multiple needs a trailing empty page", func(t *testing.T) {
		api := newFakeAPI(t, pagedList(4))
		c := newTestClient(t, api.URL)

		it := c.APIUser().ListAll(ListOptions{PageSize: 2})
		var n int
		for _, err := range it.All(context.Background()) {
			require.NoError(t, err)
			n++
		}
		assert.Equal(t, 4, n)
		assert.Len(t, api.Calls(), 3)
	})

	t.Run("stopping early fetches nothing more", func(t *testing.T) {
		api := newFakeAPI(t, pagedList(5))
		c := newTestClient(t, api.URL)

		it := c.APIUser().ListAll(ListOptions{PageSize: 2})
		for doc, err := range it.All(context.Background()) {
			require.NoError(t, err)
			if doc.ID() == "2" {
				break
			}
		}
		assert.Len(t, api.Calls(), 1)
	})

	t.Run("default page size", func(t *testing.T) {
		api := newFakeAPI(t, pagedList(3))
		c := newTestClient(t, api.URL)

		_, err := c.APIUser().ListAll(ListOptions{}).Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(DefaultPageSize), api.LastCall(t).Values["limit"])
	})

	t.Run("error ends the iteration", func(t *testing.T) {
		api := newFakeAPI(t, func(call apiCall) (int, string) {
			return http.StatusOK, fail(401, "Unauthorized")
		})
		c := newTestClient(t, api.URL)

		it := c.APIUser().ListAll(ListOptions{})
		_, err := it.Next(context.Background())
		assert.True(t, IsRemoteCode(err, 401))
		_, again := it.Next(context.Background())
		assert.Equal(t, err, again)
		assert.Len(t, api.Calls(), 1)
	})
}

func TestUser_GetDocument(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<doc_id type="integer">123</doc_id><title>Hello</title><access>private</access>`)
	})
	c := newTestClient(t, api.URL)

	doc, err := c.APIUser().GetDocument(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", doc.ID())
	access, _ := doc.GetString("access")
	assert.Equal(t, "private", access)

	call := api.LastCall(t)
	assert.Equal(t, "docs.getSettings", call.Method)
	assert.Equal(t, "123", call.Values["doc_id"])
}

func TestUser_Search(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<result_set totalResultsAvailable="2" totalResultsReturned="2" firstResultPosition="1" list="true">` +
			docResult(10, "A") + docResult(11, "B") + `</result_set>`)
	})
	c := newTestClient(t, api.URL)
	u := newUser(c, mustParse(t, `<rsp><user_id>9</user_id><session_key>s</session_key></rsp>`))

	docs, err := u.Search(context.Background(), "annual report", SearchOptions{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11"}, docIDs(docs))
	for _, d := range docs {
		assert.Same(t, u, d.Owner(), "user scope results are owned by the searching user")
	}

	call := api.LastCall(t)
	assert.Equal(t, "docs.search", call.Method)
	assert.Equal(t, "annual report", call.Values["query"])
	assert.Equal(t, "11", call.Values["num_start"])
	assert.Equal(t, "5", call.Values["num_results"])
	assert.NotContains(t, call.Values, "scope")

	docs, err = u.Search(context.Background(), "x", SearchOptions{Scope: ScopeAll})
	require.NoError(t, err)
	for _, d := range docs {
		assert.Same(t, c.APIUser(), d.Owner(), "other scopes are owned by the API user")
	}
	call = api.LastCall(t)
	assert.Equal(t, "all", call.Values["scope"])
	assert.NotContains(t, call.Values, "num_start")

	docs, err = c.Find(context.Background(), "x", SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "all", api.LastCall(t).Values["scope"])
}

func TestUser_SearchAll(t *testing.T) {
	const total = 5
	// The fake reports firstResultPosition as num_start+1, which is how the
	// page cursor advances without overlap.
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		start, _ := strconv.Atoi(call.Values["num_start"])
		size, _ := strconv.Atoi(call.Values["num_results"])

		var b strings.Builder
		returned := 0
		for id := start + 1; id <= total && returned < size; id++ {
			b.WriteString(docResult(id, fmt.Sprintf("Doc %d", id)))
			returned++
		}
		return http.StatusOK, ok(fmt.Sprintf(
			`<result_set totalResultsAvailable="%d" totalResultsReturned="%d" firstResultPosition="%d" list="true">%s</result_set>`,
			total, returned, start+1, b.String()))
	})
	c := newTestClient(t, api.URL)

	it := c.FindAll("paper", SearchOptions{PageSize: 2})
	var ids []string
	for doc, err := range it.All(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, doc.ID())
		assert.Same(t, c.APIUser(), doc.Owner())
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)

	calls := api.Calls()
	require.Len(t, calls, 3)
	assert.NotContains(t, calls[0].Values, "num_start")
	assert.Equal(t, "2", calls[1].Values["num_start"])
	assert.Equal(t, "4", calls[2].Values["num_start"])
	for _, call := range calls {
		assert.Equal(t, "all", call.Values["scope"])
		assert.Equal(t, "2", call.Values["num_results"])
	}
}

func TestUser_SearchAll_MissingAttributes(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<result_set>` + docResult(1, "A") + `</result_set>`)
	})
	c := newTestClient(t, api.URL)

	_, err := c.APIUser().SearchAll("q", SearchOptions{}).Next(context.Background())
	var merr *MalformedResponseError
	assert.ErrorAs(t, err, &merr)
}

func TestUser_Upload(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<doc_id type="integer">555</doc_id><access_key>key-abc</access_key>`)
	})
	c := newTestClient(t, api.URL)
	u := c.APIUser()

	t.Run("type from extension", func(t *testing.T) {
		doc, err := u.Upload(context.Background(), strings.NewReader("%PDF"), "/tmp/report.PDF", nil)
		require.NoError(t, err)
		assert.Equal(t, "555", doc.ID())
		assert.Same(t, u, doc.Owner())

		call := api.LastCall(t)
		assert.Equal(t, "docs.upload", call.Method)
		assert.Equal(t, "pdf", call.Values["doc_type"])
		require.Contains(t, call.Files, "file")
		assert.Equal(t, "report.PDF", call.Files["file"].Filename)
	})

	t.Run("explicit type is normalized", func(t *testing.T) {
		_, err := u.Upload(context.Background(), strings.NewReader("x"), "notes.bin", Fields{"doc_type": ".TXT", "access": "private"})
		require.NoError(t, err)

		call := api.LastCall(t)
		assert.Equal(t, "txt", call.Values["doc_type"])
		assert.Equal(t, "private", call.Values["access"])
	})

	t.Run("name required", func(t *testing.T) {
		_, err := u.Upload(context.Background(), strings.NewReader("x"), "", nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("name from reader", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/docs/slides.ppt", []byte("ppt"), 0o644))
		f, err := fs.Open("/docs/slides.ppt")
		require.NoError(t, err)
		defer f.Close()

		_, err = u.Upload(context.Background(), f, "", nil)
		require.NoError(t, err)
		call := api.LastCall(t)
		assert.Equal(t, "ppt", call.Values["doc_type"])
		assert.Equal(t, "slides.ppt", call.Files["file"].Filename)
	})

	t.Run("from afero filesystem", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/in/thesis.docx", []byte("docx bytes"), 0o644))

		_, err := u.UploadFile(context.Background(), fs, "/in/thesis.docx", nil)
		require.NoError(t, err)
		assert.Equal(t, "docx", api.LastCall(t).Values["doc_type"])

		_, err = u.UploadFile(context.Background(), fs, "/in/missing.pdf", nil)
		assert.Error(t, err)
	})

	t.Run("from uri", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "memo.txt")
		require.NoError(t, os.WriteFile(path, []byte("memo"), 0o644))

		_, err := u.UploadURI(context.Background(), "file://"+filepath.ToSlash(path), nil)
		require.NoError(t, err)

		call := api.LastCall(t)
		assert.Equal(t, "txt", call.Values["doc_type"])
		assert.Equal(t, "memo.txt", call.Files["file"].Filename)
	})

	t.Run("from url", func(t *testing.T) {
		_, err := u.UploadFromURL(context.Background(), "http://example.com/files/Paper.PDF?dl=1", nil)
		require.NoError(t, err)

		call := api.LastCall(t)
		assert.Equal(t, "docs.uploadFromUrl", call.Method)
		assert.Equal(t, "pdf", call.Values["doc_type"])
		assert.Equal(t, "http://example.com/files/Paper.PDF?dl=1", call.Values["url"])
		assert.Empty(t, call.Files)
	})
}

func TestVirtualUser(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		switch call.Method {
		case "security.getUserAccessList":
			return http.StatusOK, ok(docResults("resultset", 1, 2))
		default:
			return http.StatusOK, ok("")
		}
	})
	c := newTestClient(t, api.URL)
	vu := mustVirtualUser(t, c, "reader-42")

	_, err := c.VirtualUser("")
	assert.ErrorIs(t, err, ErrInvalidArgument, "an empty id would act as the API user")

	_, err = vu.AutoLoginURL(context.Background(), "/")
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Empty(t, api.Calls())

	docs, err := vu.AccessList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, docIDs(docs))
	for _, d := range docs {
		assert.Same(t, c.APIUser(), d.Owner())
	}
	call := api.LastCall(t)
	assert.Equal(t, "reader-42", call.Values["my_user_id"])
	assert.Equal(t, "reader-42", call.Values["user_identifier"])
	assert.NotContains(t, call.Values, "session_key")

	require.NoError(t, vu.SetAccess(context.Background(), false))
	call = api.LastCall(t)
	assert.Equal(t, "security.setAccess", call.Method)
	assert.Equal(t, "0", call.Values["allowed"])

	_, err = vu.Upload(context.Background(), strings.NewReader("x"), "a.txt", Fields{"my_user_id": "spoofed"})
	require.NoError(t, err)
	assert.Equal(t, "reader-42", api.LastCall(t).Values["my_user_id"])
}

func TestUser_AutoLoginURL(t *testing.T) {
	api := newFakeAPI(t, func(call apiCall) (int, string) {
		return http.StatusOK, ok(`<url><![CDATA[http://www.scribd.com/login/auto?token=abc]]></url>`)
	})
	c := newTestClient(t, api.URL)
	u := newUser(c, mustParse(t, `<rsp><user_id>1</user_id><session_key>s</session_key></rsp>`))

	link, err := u.AutoLoginURL(context.Background(), "/docs")
	require.NoError(t, err)
	assert.Equal(t, "http://www.scribd.com/login/auto?token=abc", link)

	call := api.LastCall(t)
	assert.Equal(t, "user.getAutoSigninUrl", call.Method)
	assert.Equal(t, "/docs", call.Values["next_url"])
	assert.Equal(t, "s", call.Values["session_key"])
}
