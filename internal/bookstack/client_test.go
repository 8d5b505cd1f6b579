package bookstack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient("https://bookstack.example.com/", "id", "secret"); err != nil {
			t.Errorf("NewClient() error = %v", err)
		}
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient("file:///tmp/books", "id", "secret"); err == nil {
			t.Error("NewClient() error = nil, want scheme error")
		}
	})
}

func TestFindOrCreateBook(t *testing.T) {
	t.Parallel()

	t.Run("finds match on a later listing page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Token id:secret" {
				t.Errorf("Authorization = %q", got)
			}
			if r.Method != http.MethodGet || r.URL.Path != "/api/books" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}

			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			list := bookList{Total: listPageSize + 1}
			if offset == 0 {
				for i := 0; i < listPageSize; i++ {
					list.Data = append(list.Data, book{ID: i + 1, Name: fmt.Sprintf("Book %d", i+1)})
				}
			} else {
				list.Data = []book{{ID: 200, Name: "Migrated Docs"}}
			}
			json.NewEncoder(w).Encode(list)
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, "id", "secret")
		if err != nil {
			t.Fatal(err)
		}

		// Case differs from the stored name.
		id, err := c.FindOrCreateBook(context.Background(), "migrated docs")
		if err != nil {
			t.Fatalf("FindOrCreateBook() error = %v", err)
		}
		if id != 200 {
			t.Errorf("FindOrCreateBook() = %d, want 200", id)
		}
	})

	t.Run("creates when missing", func(t *testing.T) {
		t.Parallel()

		var created bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				json.NewEncoder(w).Encode(bookList{Total: 1, Data: []book{{ID: 1, Name: "Other"}}})
			case http.MethodPost:
				created = true
				var payload map[string]string
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("decode create payload: %v", err)
				}
				if payload["name"] != "Fresh Book" {
					t.Errorf("create payload name = %q", payload["name"])
				}
				json.NewEncoder(w).Encode(book{ID: 42, Name: "Fresh Book"})
			}
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, "id", "secret")
		if err != nil {
			t.Fatal(err)
		}

		id, err := c.FindOrCreateBook(context.Background(), "Fresh Book")
		if err != nil {
			t.Fatalf("FindOrCreateBook() error = %v", err)
		}
		if !created {
			t.Error("expected a create request")
		}
		if id != 42 {
			t.Errorf("FindOrCreateBook() = %d, want 42", id)
		}
	})

	t.Run("empty instance creates immediately", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode(bookList{Total: 0})
				return
			}
			json.NewEncoder(w).Encode(book{ID: 7})
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, "id", "secret")
		if err != nil {
			t.Fatal(err)
		}

		id, err := c.FindOrCreateBook(context.Background(), "First")
		if err != nil {
			t.Fatalf("FindOrCreateBook() error = %v", err)
		}
		if id != 7 {
			t.Errorf("FindOrCreateBook() = %d, want 7", id)
		}
	})
}

func TestCreatePage(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/pages" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var params CreatePageParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			if params.Name != "Setup Guide" || params.BookID != 3 {
				t.Errorf("payload = %+v", params)
			}
			if !strings.Contains(params.HTML, "<p>hello</p>") {
				t.Errorf("payload HTML = %q", params.HTML)
			}
			json.NewEncoder(w).Encode(Page{ID: 99, Name: params.Name, Slug: "setup-guide", BookSlug: "imported"})
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, "id", "secret")
		if err != nil {
			t.Fatal(err)
		}

		page, err := c.CreatePage(context.Background(), CreatePageParams{
			Name:   "Setup Guide",
			HTML:   "<div><p>hello</p></div>",
			BookID: 3,
		})
		if err != nil {
			t.Fatalf("CreatePage() error = %v", err)
		}
		if page.ID != 99 || page.Slug != "setup-guide" {
			t.Errorf("CreatePage() = %+v", page)
		}
	})

	t.Run("surfaces API errors with excerpt", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error":{"message":"The name field is required."}}`)
		}))
		defer srv.Close()

		c, err := NewClient(srv.URL, "id", "secret")
		if err != nil {
			t.Fatal(err)
		}

		_, err = c.CreatePage(context.Background(), CreatePageParams{BookID: 1})
		if err == nil {
			t.Fatal("CreatePage() error = nil, want status error")
		}
		if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "name field is required") {
			t.Errorf("error = %v, want status and excerpt", err)
		}
	})
}

func TestFindOrCreateBookSubPathBase(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bookstack/api/books" {
			t.Errorf("path = %q, want base sub-path preserved", r.URL.Path)
		}
		json.NewEncoder(w).Encode(bookList{Total: 1, Data: []book{{ID: 5, Name: "Docs"}}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/bookstack/", "id", "secret")
	if err != nil {
		t.Fatal(err)
	}

	id, err := c.FindOrCreateBook(context.Background(), "Docs")
	if err != nil {
		t.Fatalf("FindOrCreateBook() error = %v", err)
	}
	if id != 5 {
		t.Errorf("FindOrCreateBook() = %d, want 5", id)
	}
}
