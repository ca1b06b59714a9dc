package featureapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	apperrors "featurecard/internal/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, WithTarget("label")), server
}

func TestClient_FetchFeatureNumerical(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feature-card/f1/get_feature_info/", r.URL.Path)
		assert.Equal(t, "age", r.URL.Query().Get("column"))
		w.Write([]byte(`{
			"Feature_Name": "age",
			"Feature_Description": "age in years",
			"Level_of_Measurement": "continuous",
			"Descriptive_Stats": {"Mean": 17.57, "histogram_data": [1, 2, 2, 3, 4, 5, 100, null]}
		}`))
	})

	key, err := feature.NewKey("f1", "age")
	require.NoError(t, err)
	got, err := client.FetchFeature(context.Background(), key)
	require.NoError(t, err)

	numerical, ok := got.(*feature.NumericalFeature)
	require.True(t, ok)
	assert.Equal(t, feature.Continuous, numerical.Info().Level)
	assert.Equal(t, "age in years", numerical.Info().Description)
	assert.Len(t, numerical.Values, 8)
	assert.Equal(t, []float64{1, 2, 2, 3, 4, 5, 100}, numerical.Values.Finite())
}

func TestClient_FetchFeatureCategoricalKeepsOrder(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Feature_Name": "grade",
			"Level_of_Measurement": "nominal",
			"Descriptive_Stats": {"value_counts": {"B": 85, "A": 10, "NaN": 3, "C": 5}}
		}`))
	})

	got, err := client.FetchFeature(context.Background(), feature.Key{FileID: "f1", Column: "grade"})
	require.NoError(t, err)

	categorical, ok := got.(*feature.CategoricalFeature)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "A", "C"}, categorical.Counts.Labels())
	assert.Equal(t, 3, categorical.Counts.Missing)
	assert.Equal(t, 103, categorical.Counts.Len())
}

func TestClient_FetchFeatureErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		notFound  bool
		transient bool
		invalid   bool
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"File not found"}`, notFound: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, transient: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"Column name is required"}`, transient: true},
		{name: "not json", status: http.StatusOK, body: `<html>`, invalid: true},
		{name: "unknown level", status: http.StatusOK, body: `{"Level_of_Measurement":"ratio","Descriptive_Stats":{}}`, invalid: true},
		{name: "missing stats", status: http.StatusOK, body: `{"Level_of_Measurement":"nominal"}`, invalid: true},
		{name: "histogram not array", status: http.StatusOK,
			body: `{"Level_of_Measurement":"cardinal","Descriptive_Stats":{"histogram_data":"1,2"}}`, invalid: true},
		{name: "negative count", status: http.StatusOK,
			body: `{"Level_of_Measurement":"nominal","Descriptive_Stats":{"value_counts":{"A":-1}}}`, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.FetchFeature(context.Background(), feature.Key{FileID: "f1", Column: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.notFound, core.IsNotFoundError(err))
			assert.Equal(t, tt.transient, core.IsTransientError(err))
			assert.Equal(t, tt.invalid, errorsIsInvalid(err))
			if tt.transient {
				assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
			}
		})
	}
}

func TestClient_ConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)
	_, err := client.FetchStacked(context.Background(), feature.Key{FileID: "f1", Column: "x"}, feature.Cardinal)
	require.Error(t, err)
	assert.True(t, core.IsTransientError(err))
}

func TestClient_FetchStacked(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feature-card/f1/get_stacked_data/", r.URL.Path)
		assert.Equal(t, "label", r.URL.Query().Get("target"))
		w.Write([]byte(`{
			"target": "label",
			"Level_of_Measurement": "cardinal",
			"classes": [
				{"label": "yes", "histogram_data": [1, 2, 3]},
				{"label": "no", "histogram_data": [7, 8]},
				{"label": "maybe"}
			]
		}`))
	})

	stacked, err := client.FetchStacked(context.Background(), feature.Key{FileID: "f1", Column: "x"}, feature.Cardinal)
	require.NoError(t, err)
	assert.Equal(t, "label", stacked.Target)
	assert.Equal(t, []string{"yes", "no", "maybe"}, stacked.Labels())

	sample, ok := stacked.Get("no")
	require.True(t, ok)
	assert.Equal(t, feature.NumericalSample{7, 8}, sample)

	empty, ok := stacked.Get("maybe")
	require.True(t, ok)
	assert.True(t, empty.IsEmpty())
}

func TestClient_FetchStackedRejectsUnlabelledClass(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Level_of_Measurement":"nominal","classes":[{"value_counts":{"a":1}}]}`))
	})

	_, err := client.FetchStacked(context.Background(), feature.Key{FileID: "f1", Column: "x"}, feature.Nominal)
	assert.True(t, errorsIsInvalid(err))
}

func TestClient_FetchStackedUsesKnownLevel(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"target":"label","classes":[{"label":"yes","value_counts":{"a":2,"b":1}}]}`))
	})

	stacked, err := client.FetchStacked(context.Background(), feature.Key{FileID: "f1", Column: "x"}, feature.Nominal)
	require.NoError(t, err)
	assert.Equal(t, []string{"yes"}, stacked.Labels())
	sample, ok := stacked.Get("yes")
	require.True(t, ok)
	assert.IsType(t, feature.CategoricalSample{}, sample)
	assert.False(t, sample.IsEmpty())

	_, err = DecodeStacked([]byte(`{"classes":[]}`), "")
	assert.True(t, errorsIsInvalid(err))
}

func TestClient_CancelledContext(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchFeature(ctx, feature.Key{FileID: "f1", Column: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func errorsIsInvalid(err error) bool {
	return errors.Is(err, core.ErrInvalidFeature)
}
