//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "estate_listing/internal/adapters/http_server"
	redisad "estate_listing/internal/adapters/redis"
	"estate_listing/internal/app"
	"estate_listing/internal/domain"
	"estate_listing/internal/fixtures"
	"estate_listing/internal/storage/memory"
	mysqlrepo "estate_listing/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Skipf("%s not set; export it (e.g. MIGRATIONS_DIR=$PWD/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------

// Seeds MySQL, loads the snapshot through the refresher and exercises the
// real router with a redis cache in front.
func TestHTTP_EndToEnd_MySQLSnapshot(t *testing.T) {
	mustEnv(t, "MIGRATIONS_DIR")

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=estate",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/estate?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	ds, err := fixtures.Default()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	seed := app.NewSeedService(repo, cache, nil)
	for _, p := range ds.Properties {
		if err := seed.SeedProperty(ctx, p); err != nil {
			t.Fatalf("seed property: %v", err)
		}
	}
	for _, u := range ds.Users {
		if err := seed.SeedUser(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	store := memory.New()
	if err := memory.NewRefresher(store, repo, 10*time.Second).Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if store.Len() != len(ds.Properties) {
		t.Fatalf("snapshot has %d properties", store.Len())
	}

	srv := httpserver.New(10 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{
		Q: app.NewQueryService(store, repo, cache, time.Minute),
		C: app.NewCommandService(store, repo, nil),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// search
	res, err := http.Get(ts.URL + "/v1/properties?type=sale&sort=price-high")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out domain.SearchResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 4 || out.Items[0].ID != "3" {
		t.Fatalf("unexpected search result: %+v", out)
	}
	if len(mr.Keys()) == 0 {
		t.Fatalf("expected search result to be cached")
	}

	// inquiry lands in MySQL
	body := `{"name":"Jane","email":"jane@example.com","message":"Viewing on Saturday?","userId":"u1"}`
	res2, err := http.Post(ts.URL+"/v1/properties/2/inquiries", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", res2.StatusCode)
	}

	res3, err := http.Get(ts.URL + "/v1/dashboards/buyer/u1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res3.Body.Close()
	var d domain.BuyerDashboard
	if err := json.NewDecoder(res3.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Inquiries) != 1 || d.Inquiries[0].PropertyID != "2" || len(d.Saved) != 2 {
		t.Fatalf("unexpected buyer dashboard: %+v", d)
	}
}
