package digit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient() *Client {
	return NewClient("mz", 5*time.Second, zerolog.Nop())
}

func TestSearch_QueryParamsAndEnvelope(t *testing.T) {
	var gotQuery map[string]string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"limit":    r.URL.Query().Get("limit"),
			"offset":   r.URL.Query().Get("offset"),
			"tenantId": r.URL.Query().Get("tenantId"),
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ResponseInfo":{"status":"successful"},"Stock":[{"id":"s-1"}]}`))
	}))
	defer srv.Close()

	c := newTestClient()
	body := map[string]any{
		"RequestInfo": c.NewRequestInfo(),
		"Stock":       map[string]any{"id": []string{"s-1", "s-2"}},
	}
	var out struct {
		Stock []struct {
			ID string `json:"id"`
		} `json:"Stock"`
	}
	if err := c.Search(context.Background(), srv.URL+"/stock/v1/_search", 2, 0, body, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["limit"] != "2" || gotQuery["offset"] != "0" || gotQuery["tenantId"] != "mz" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	ri, ok := gotBody["RequestInfo"].(map[string]any)
	if !ok {
		t.Fatal("expected RequestInfo in body")
	}
	if tok, present := ri["authToken"]; !present || tok != "" {
		t.Errorf("expected empty authToken, got %v", tok)
	}
	if len(out.Stock) != 1 || out.Stock[0].ID != "s-1" {
		t.Errorf("unexpected decoded response: %+v", out)
	}
}

func TestSearch_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Errors":[{"code":"INTERNAL"}]}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient()
	err := c.Search(context.Background(), srv.URL, 1, 0, map[string]any{}, &struct{}{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSearchBoundaries_Criteria(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"codes":           r.URL.Query().Get("codes"),
			"tenantId":        r.URL.Query().Get("tenantId"),
			"hierarchyType":   r.URL.Query().Get("hierarchyType"),
			"includeChildren": r.URL.Query().Get("includeChildren"),
			"includeParents":  r.URL.Query().Get("includeParents"),
		}
		w.Write([]byte(`{"TenantBoundary":[]}`))
	}))
	defer srv.Close()

	c := newTestClient()
	var out struct {
		TenantBoundary []json.RawMessage `json:"TenantBoundary"`
	}
	err := c.SearchBoundaries(context.Background(), srv.URL, BoundaryCriteria{
		Codes:           []string{"MZ", "MZ_01"},
		HierarchyType:   "ADMIN",
		IncludeChildren: true,
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["codes"] != "MZ,MZ_01" {
		t.Errorf("unexpected codes param: %s", got["codes"])
	}
	if got["hierarchyType"] != "ADMIN" || got["tenantId"] != "mz" {
		t.Errorf("unexpected criteria params: %v", got)
	}
	if got["includeChildren"] != "true" || got["includeParents"] != "false" {
		t.Errorf("unexpected include params: %v", got)
	}
}

func TestSend_DiscardEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"ResponseInfo":{"status":"successful"}}`))
	}))
	defer srv.Close()

	c := newTestClient()
	if err := c.Send(context.Background(), srv.URL, map[string]any{"Stock": []any{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRequestInfo(t *testing.T) {
	ri := NewRequestInfo("mz")
	if ri.AuthToken != "" {
		t.Errorf("expected empty auth token, got %q", ri.AuthToken)
	}
	if ri.UserInfo == nil || ri.UserInfo.TenantID != "mz" {
		t.Fatalf("unexpected user info: %+v", ri.UserInfo)
	}
	if ri.UserInfo.UUID == "" {
		t.Error("expected a user uuid")
	}
}
