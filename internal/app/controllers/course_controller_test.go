package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rifat402/courses-app/internal/app/controllers"
	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/app/repositories"
	"github.com/Rifat402/courses-app/internal/app/routes"
	"github.com/Rifat402/courses-app/internal/app/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(repo repositories.CourseRepository) *gin.Engine {
	svc := services.NewCourseService(repo, 0, zerolog.Nop())
	router := gin.New()
	routes.SetupRouter(router, "/api",
		controllers.NewCourseController(svc),
		controllers.NewHealthController(svc),
	)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCourseLifecycleScenario(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	rec := do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": "Intro"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"title":"Intro"}`, rec.Body.String())
	assert.Equal(t, "/api/courses/1", rec.Header().Get("Location"))

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Intro"}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/courses/1", map[string]interface{}{"title": "Intro II"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Intro II"}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Course with ID 1 deleted."}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Course not found."}`, rec.Body.String())
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	titles := []string{"Algebra", "Biology", "Chemistry"}
	for i, title := range titles {
		rec := do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/courses/"+strconv.Itoa(i+1), rec.Header().Get("Location"))
	}

	rec := do(t, router, http.MethodGet, "/api/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"title":"Algebra"},
		{"id":2,"title":"Biology"},
		{"id":3,"title":"Chemistry"}
	]`, rec.Body.String())
}

func TestListEmptyStoreReturnsEmptyArray(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	rec := do(t, router, http.MethodGet, "/api/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateIgnoresClientSuppliedIDs(t *testing.T) {
	repo := repositories.NewMemoryCourseRepository()
	router := newRouter(repo)

	rec := do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{
		"id": 42, "_id": "abc", "title": "Physics",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/courses/1", rec.Header().Get("Location"))

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Physics"}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/courses/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateChangesOnlySuppliedFields(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	rec := do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{
		"title":       "Databases",
		"description": "Relational model",
		"credits":     4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/courses/1", map[string]interface{}{"credits": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Databases","description":"Relational model","credits":6}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	assert.JSONEq(t, `{"id":1,"title":"Databases","description":"Relational model","credits":6}`, rec.Body.String())
}

func TestUpdateKeepsIdentifiersImmutable(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())
	do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": "Art"})

	rec := do(t, router, http.MethodPut, "/api/courses/1", map[string]interface{}{
		"id": 99, "_id": "ffff", "title": "Art History",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Art History"}`, rec.Body.String())
}

func TestUpdateWithEmptyObjectReturnsCurrentCourse(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())
	do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": "Music"})

	rec := do(t, router, http.MethodPut, "/api/courses/1", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Music"}`, rec.Body.String())
}

func TestNonNumericIDIsRejectedWithoutMutation(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())
	do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": "Logic"})

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/courses/abc", nil},
		{http.MethodGet, "/api/courses/1.5", nil},
		{http.MethodPut, "/api/courses/abc", map[string]interface{}{"title": "Changed"}},
		{http.MethodPut, "/api/courses/1x", map[string]interface{}{"title": "Changed"}},
		{http.MethodDelete, "/api/courses/abc", nil},
		{http.MethodDelete, "/api/courses/%20", nil},
		{http.MethodGet, "/api/courses/99999999999999999999", nil},
		{http.MethodDelete, "/api/courses/-99999999999999999999", nil},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid course ID."}`, rec.Body.String())
		})
	}

	rec := do(t, router, http.MethodGet, "/api/courses", nil)
	assert.JSONEq(t, `[{"id":1,"title":"Logic"}]`, rec.Body.String())
}

func TestMissingCourseReturns404(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var body interface{}
			if method == http.MethodPut {
				body = map[string]interface{}{"title": "Ghost"}
			}
			rec := do(t, router, method, "/api/courses/7", body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error":"Course not found."}`, rec.Body.String())
		})
	}
}

func TestMalformedBodyReturns400(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())
	do(t, router, http.MethodPost, "/api/courses", map[string]interface{}{"title": "Ethics"})

	for _, body := range []string{`not json`, `[1,2,3]`, `"title"`} {
		rec := do(t, router, http.MethodPost, "/api/courses", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Invalid request body."}`, rec.Body.String())

		rec = do(t, router, http.MethodPut, "/api/courses/1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := do(t, router, http.MethodGet, "/api/courses", nil)
	assert.JSONEq(t, `[{"id":1,"title":"Ethics"}]`, rec.Body.String())
}

func TestNestedFieldsPassThrough(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	input := `{"title":"Compilers","schedule":{"days":["Mon","Wed"],"room":"B12"},"tags":["cs",3,true]}`
	rec := do(t, router, http.MethodPost, "/api/courses", input)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, input, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	assert.JSONEq(t, `{"id":1,"title":"Compilers","schedule":{"days":["Mon","Wed"],"room":"B12"},"tags":["cs",3,true]}`, rec.Body.String())
}

func TestNumbersUseDoublePrecision(t *testing.T) {
	router := newRouter(repositories.NewMemoryCourseRepository())

	// 2^53 + 1 is not representable as a double
	rec := do(t, router, http.MethodPost, "/api/courses", `{"seats":9007199254740993,"fee":12.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seats":9007199254740992`)

	rec = do(t, router, http.MethodGet, "/api/courses/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seats":9007199254740992`)
	assert.Contains(t, rec.Body.String(), `"fee":12.5`)
}

// brokenRepo fails every store call
type brokenRepo struct{ err error }

func (r brokenRepo) Prepare(context.Context) error { return r.err }
func (r brokenRepo) Ping(context.Context) error    { return r.err }
func (r brokenRepo) FindAll(context.Context) ([]models.Course, error) {
	return nil, r.err
}
func (r brokenRepo) FindByID(context.Context, int64) (models.Course, error) {
	return nil, r.err
}
func (r brokenRepo) Create(context.Context, models.Course) (int64, error) {
	return 0, r.err
}
func (r brokenRepo) Update(context.Context, int64, models.Course) (models.Course, error) {
	return nil, r.err
}
func (r brokenRepo) Delete(context.Context, int64) error { return r.err }

func TestStoreFailuresReturnGenericMessages(t *testing.T) {
	router := newRouter(brokenRepo{err: errors.New("connection refused by 10.0.0.5:27017")})

	cases := []struct {
		method  string
		path    string
		body    interface{}
		message string
	}{
		{http.MethodGet, "/api/courses", nil, "Failed to retrieve courses."},
		{http.MethodPost, "/api/courses", map[string]interface{}{"title": "X"}, "Failed to add course."},
		{http.MethodGet, "/api/courses/1", nil, "Failed to retrieve course."},
		{http.MethodPut, "/api/courses/1", map[string]interface{}{"title": "X"}, "Failed to update course."},
		{http.MethodDelete, "/api/courses/1", nil, "Failed to delete course."},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"error": tc.message}, body)
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(repositories.NewMemoryCourseRepository()), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, newRouter(brokenRepo{err: errors.New("down")}), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Store unavailable."}`, rec.Body.String())
}
