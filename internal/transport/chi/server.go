// Package chi exposes the recommendation API over HTTP on a chi router.
package chi

import (
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// Welcome is the body of GET /.
const Welcome = "Hello World"

// Server serves the HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		recommend:     recommend,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/", s.Welcome)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	r.Route("/api/recommend", func(r gochi.Router) {
		r.Get("/genre", s.Recommend(recommendation.Genre))
		r.Get("/tag", s.Recommend(recommendation.Tag))
		r.Get("/collaborative", s.Recommend(recommendation.Collaborative))
		r.Get("/genome-scores", s.Recommend(recommendation.Genome))
		r.Get("/hybrid", s.Recommend(recommendation.Hybrid))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Welcome handles GET /.
//
//	@Summary	Welcome message
//	@Produce	json
//	@Success	200	{string}	string	"Hello World"
//	@Router		/ [get]
func (s *Server) Welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Welcome)
}

// ScoredItem is one entry of a scored recommendation response.
type ScoredItem struct {
	IMDbID  string  `json:"imdb_id"`
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
}

// ScoredResponse is returned when with_scores is set.
type ScoredResponse struct {
	Strategy string       `json:"strategy"`
	IMDbID   string       `json:"imdb_id"`
	Items    []ScoredItem `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Recommend returns the handler of GET /api/recommend/{strategy}.
//
//	@Summary		Recommend similar movies
//	@Description	Ranks movies similar to imdb_id. Returns IMDb IDs best first, or scored items with with_scores=true.
//	@Produce		json
//	@Param			strategy	path		string	true	"genre, tag, collaborative, genome-scores or hybrid"
//	@Param			imdb_id		query		string	true	"IMDb ID, e.g. tt0114709"
//	@Param			top_n		query		int		false	"Number of results"	default(5)
//	@Param			with_scores	query		bool	false	"Include scores and internal IDs"
//	@Param			sample_frac	query		number	false	"Fraction of ratings sampled (collaborative, hybrid)"
//	@Success		200			{array}		string
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		429			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/recommend/{strategy} [get]
func (s *Server) Recommend(strategy recommendation.Strategy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseRecommendParams(r.URL.Query())
		if err != nil {
			var pe *paramError
			if errors.As(err, &pe) {
				writeError(w, http.StatusBadRequest, CodeBadRequest, pe.Error())
				return
			}
			writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid query")
			return
		}
		if err := getValidator().Struct(params); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
			return
		}

		q := recommenduc.Query{Strategy: strategy, IMDbID: params.IMDbID}
		if params.TopN != nil {
			q.TopN = *params.TopN
		}
		if params.SampleFrac != nil {
			q.SampleFrac = *params.SampleFrac
		}

		res, err := s.recommend.Recommend(r.Context(), q)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

		if !params.WithScores {
			writeJSON(w, http.StatusOK, res.IMDbIDs())
			return
		}

		items := make([]ScoredItem, len(res.Items))
		for i, it := range res.Items {
			items[i] = ScoredItem{IMDbID: it.IMDbID, MovieID: it.MovieID, Score: it.Score}
		}
		writeJSON(w, http.StatusOK, ScoredResponse{
			Strategy: string(res.Strategy),
			IMDbID:   res.IMDbID,
			Items:    items,
		})
	}
}

// HealthCheck handles GET /health.
//
//	@Summary	Service health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
