package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	"github.com/yungbote/mavedb-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/mavedb-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mavedb-backend/internal/http/middleware"
	"github.com/yungbote/mavedb-backend/internal/http/response"
	"github.com/yungbote/mavedb-backend/internal/observability"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
	"github.com/yungbote/mavedb-backend/internal/services"
)

const testSecret = "test-secret"

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   services.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics, err := observability.New(0)
	require.NoError(t, err)
	cache := viewcache.NewMemory(time.Minute)

	userRepo := repos.NewUserRepo(db, log)
	setRepo := repos.NewExperimentSetRepo(db, log)
	expRepo := repos.NewExperimentRepo(db, log)
	ssRepo := repos.NewScoreSetRepo(db, log)
	idRepo := repos.NewIdentifierRepo(db, log)
	licenseRepo := repos.NewLicenseRepo(db, log)
	genomeRepo := repos.NewReferenceGenomeRepo(db, log)

	auth := services.NewAuthService(db, log, userRepo, testSecret, "")
	engine := NewRouter(RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, auth),
		UserHandler:    httpH.NewUserHandler(services.NewUserService()),
		LookupHandler:  httpH.NewLookupHandler(services.NewLookupService(log, licenseRepo, genomeRepo)),
		ExperimentHandler: httpH.NewExperimentHandler(
			services.NewExperimentService(db, log, metrics, cache, setRepo, expRepo, ssRepo, idRepo),
		),
		ScoreSetHandler: httpH.NewScoreSetHandler(services.NewScoreSetService(
			db, log, metrics, cache, setRepo, expRepo, ssRepo,
			repos.NewTargetGeneRepo(db, log), repos.NewVariantRepo(db, log), licenseRepo, genomeRepo, idRepo,
		)),
		HealthHandler: httpH.NewHealthHandler(db),
	})
	return &testAPI{engine: engine, db: db, auth: auth}
}

func (a *testAPI) token(t *testing.T, username string) string {
	t.Helper()
	claims := services.JWTClaims{}
	claims.Subject = username
	tok, err := a.auth.IssueToken(claims, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func scoreSetBody(experimentURN string) map[string]any {
	return map[string]any{
		"title":            "Test Score Set Title",
		"shortDescription": "Test score set",
		"abstractText":     "Abstract",
		"methodText":       "Methods",
		"experimentUrn":    experimentURN,
		"licenseId":        testutil.LicenseID,
		"targetGene": map[string]any{
			"name":          "TEST1",
			"category":      "Protein coding",
			"referenceMaps": []any{map[string]any{"genomeId": testutil.GenomeID}},
			"wtSequence":    map[string]any{"sequenceType": "dna", "sequence": "ACGT"},
		},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = api.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mavedb_http_requests_total{method="GET",route="/healthcheck",status="200"} 1`)
}

func TestLookups(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/licenses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"shortName":"Short"`)

	rec = api.do(t, http.MethodGet, "/api/v1/licenses/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"Don't be evil."`)

	rec = api.do(t, http.MethodGet, "/api/v1/licenses/77", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/reference-genomes/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"organismName":"Organism"`)

	rec = api.do(t, http.MethodGet, "/api/v1/keywords", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"VAMP-seq"`)
}

func TestMeRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/users/me", api.token(t, testutil.TestUsername), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orcidId":"`+testutil.TestUsername+`"`)
}

func TestFirstSignInProvisionsUser(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/v1/users/me", api.token(t, "5555-6666-7777-8888"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orcidId":"5555-6666-7777-8888"`)
}

func TestCreateScoreSetRequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/v1/score-sets", "", scoreSetBody("urn:mavedb:00000001-a"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
}

func TestScoreSetLifecycle(t *testing.T) {
	api := newTestAPI(t)
	owner := api.token(t, testutil.TestUsername)
	other := api.token(t, testutil.ExtraUsername)

	rec := api.do(t, http.MethodPost, "/api/v1/experiments", owner, map[string]any{
		"title":            "Test Experiment Title",
		"shortDescription": "Test experiment",
		"abstractText":     "Abstract",
		"methodText":       "Methods",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var exp struct {
		URN string `json:"urn"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	assert.Equal(t, "urn:mavedb:00000001-a", exp.URN)

	rec = api.do(t, http.MethodPost, "/api/v1/score-sets", owner, scoreSetBody(exp.URN))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ssURN := exp.URN + "-1"
	assert.Contains(t, rec.Body.String(), `"urn":"`+ssURN+`"`)

	// Anyone may read a single record.
	rec = api.do(t, http.MethodGet, "/api/v1/score-sets/"+ssURN, other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Test Score Set Title"`)

	// Only the owner may change it.
	update := scoreSetBody(exp.URN)
	delete(update, "experimentUrn")
	update["title"] = "Changed"
	rec = api.do(t, http.MethodPut, "/api/v1/score-sets/"+ssURN, other, update)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "insufficient permissions")

	rec = api.do(t, http.MethodPut, "/api/v1/score-sets/"+ssURN, owner, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"title":"Changed"`)

	// Private records are listed for their owner only.
	rec = api.do(t, http.MethodGet, "/api/v1/score-sets", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = api.do(t, http.MethodPut, "/api/v1/score-sets/"+ssURN+"/variants", owner, map[string]any{
		"variants": []any{
			map[string]any{"hgvsNt": "c.1A>G", "scores": map[string]any{"score": 0.5}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"numVariants":1`)

	rec = api.do(t, http.MethodGet, "/api/v1/score-sets/"+ssURN+"?includeVariants=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"urn":"`+ssURN+`#1"`)

	rec = api.do(t, http.MethodPost, "/api/v1/score-sets/"+ssURN+"/publish", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"private":false`)

	rec = api.do(t, http.MethodGet, "/api/v1/score-sets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"urn":"`+ssURN+`"`)

	rec = api.do(t, http.MethodGet, "/api/v1/experiments/"+exp.URN+"/score-sets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ssURN)
}

func TestCreateScoreSetReportsFields(t *testing.T) {
	api := newTestAPI(t)
	owner := api.token(t, testutil.TestUsername)

	body := scoreSetBody("urn:mavedb:00000001-a")
	body["targetGene"].(map[string]any)["category"] = "Nonsense"
	rec := api.do(t, http.MethodPost, "/api/v1/score-sets", owner, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	apiErr := decodeError(t, rec)
	require.NotEmpty(t, apiErr.Fields)
	assert.Equal(t, "targetGene.category", apiErr.Fields[0].Field)

	rec = api.do(t, http.MethodPost, "/api/v1/score-sets", owner, scoreSetBody("urn:mavedb:00000001-a"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	apiErr = decodeError(t, rec)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "experimentUrn", apiErr.Fields[0].Field)
}

func TestMalformedJSON(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/experiments", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+api.token(t, testutil.TestUsername))
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownResources(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{
		"/api/v1/score-sets/urn:mavedb:00000001-a-1",
		"/api/v1/experiments/urn:mavedb:00000001-a",
		"/api/v1/experiment-sets/urn:mavedb:00000001",
		"/api/v1/reference-genomes/9",
	} {
		rec := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := api.do(t, http.MethodPost, "/api/v1/score-sets/urn:mavedb:00000001-a-1/publish", api.token(t, testutil.TestUsername), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerShutdown(t *testing.T) {
	srv := NewServer(RouterConfig{HealthHandler: httpH.NewHealthHandler(nil)})
	done := make(chan error, 1)
	go func() { done <- srv.Run("127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
