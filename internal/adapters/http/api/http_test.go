package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/quizpattern/internal/adapters/http/api"
	repository "github.com/okian/quizpattern/internal/adapters/repository"
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/report"
	"github.com/okian/quizpattern/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockReporter struct {
	rep *report.Report
	err error
}

func (m *mockReporter) Report(ctx context.Context) (*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rep, nil
}

func (m *mockReporter) Section(ctx context.Context, name string) (any, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rep.Section(name)
}

type mockStandings struct {
	topN    []types.Standing
	rank    types.Standing
	rankErr error
	topNErr error
}

func (m *mockStandings) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.topN) {
		return m.topN, nil
	}
	return m.topN[:n], nil
}

func (m *mockStandings) Rank(ctx context.Context, contestantID string) (types.Standing, error) {
	if m.rankErr != nil {
		return types.Standing{}, m.rankErr
	}
	return m.rank, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

// Mock dependencies that implements the Dependencies interface
type mockDependencies struct {
	*mockReporter
	*mockStandings
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sampleReport() *report.Report {
	events := []model.Event{
		{ContestantID: "ayse", Level: 1, Category: "tarih", Chosen: model.AnswerA, Correct: model.AnswerA, IsCorrect: true, Amount: 1000, Joker: model.JokerNone},
		{ContestantID: "ayse", Level: 2, Category: "spor", Chosen: model.AnswerB, Correct: model.AnswerC, Eliminated: true, Amount: 2000, Joker: model.JokerNone},
		{ContestantID: "mehmet", Level: 1, Category: "tarih", Chosen: model.AnswerC, Correct: model.AnswerC, IsCorrect: true, Amount: 1000, Joker: model.JokerNone},
	}
	rep, err := analysis.Run(events, analysis.DefaultOptions())
	if err != nil {
		panic(err)
	}
	return rep
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		mockReporter: &mockReporter{rep: sampleReport()},
		mockStandings: &mockStandings{
			topN: []types.Standing{
				{Rank: 1, ContestantID: "ayse", Winnings: 1000},
				{Rank: 2, ContestantID: "mehmet", Winnings: 1000},
			},
			rank: types.Standing{Rank: 2, ContestantID: "mehmet", Winnings: 1000},
		},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newDeps()
		statsProvider := &mockStatsProvider{stats: map[string]any{"contestants": 2}}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(mux)

			cases := []struct {
				path string
				code int
			}{
				{"/healthz", http.StatusOK},
				{"/stats", http.StatusOK},
				{"/report", http.StatusOK},
				{"/report/summary_statistics", http.StatusOK},
				{"/report/nope", http.StatusNotFound},
				{"/standings?limit=10", http.StatusOK},
				{"/standings", http.StatusOK},
				{"/standings/mehmet", http.StatusOK},
				{"/unknown", http.StatusNotFound},
			}
			for _, tc := range cases {
				Convey(fmt.Sprintf("Then GET %s should return %d", tc.path, tc.code), func() {
					req := httptest.NewRequest("GET", tc.path, nil)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)
					So(w.Code, ShouldEqual, tc.code)
				})
			}
		})
	})
}

func TestReportHandler(t *testing.T) {
	Convey("Given a report handler", t, func() {
		deps := newDeps()
		handler := api.NewReportHandler(deps)

		Convey("When requesting the full report", func() {
			req := httptest.NewRequest("GET", "/report", nil)
			w := httptest.NewRecorder()
			handler.HandleGetReport(w, req)

			Convey("Then it should carry every top-level section", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body map[string]json.RawMessage
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(len(body), ShouldEqual, len(report.Sections))
				for _, name := range report.Sections {
					_, ok := body[name]
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When requesting the summary section", func() {
			req := httptest.NewRequest("GET", "/report/summary_statistics", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSection(w, req)

			Convey("Then it should return the summary only", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var summary report.Summary
				So(json.NewDecoder(w.Body).Decode(&summary), ShouldBeNil)
				So(summary.TotalContestants, ShouldEqual, 2)
				So(summary.TotalQuestions, ShouldEqual, 3)
			})
		})

		Convey("When requesting an unknown section", func() {
			req := httptest.NewRequest("GET", "/report/bogus", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSection(w, req)

			Convey("Then it should return not found with an error body", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "not_found")
				So(resp.Message, ShouldContainSubstring, "bogus")
			})
		})

		Convey("When the section path is nested", func() {
			req := httptest.NewRequest("GET", "/report/summary_statistics/extra", nil)
			w := httptest.NewRecorder()
			handler.HandleGetSection(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the analysis fails", func() {
			deps.mockReporter.err = errors.New("dataset unavailable")
			req := httptest.NewRequest("GET", "/report", nil)
			w := httptest.NewRecorder()
			handler.HandleGetReport(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/report", nil)
			w := httptest.NewRecorder()
			handler.HandleGetReport(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStandingsHandler_HandleGetStandings(t *testing.T) {
	Convey("Given a standings handler", t, func() {
		deps := newDeps()
		handler := api.NewStandingsHandler(deps, 5)

		Convey("When requesting top N standings", func() {
			req := httptest.NewRequest("GET", "/standings?limit=1", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)

			Convey("Then it should return the top N standings", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var response []types.Standing
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(len(response), ShouldEqual, 1)
				So(response[0].ContestantID, ShouldEqual, "ayse")
			})
		})

		Convey("When the limit is not a positive number", func() {
			for _, limit := range []string{"0", "-3", "abc"} {
				req := httptest.NewRequest("GET", "/standings?limit="+limit, nil)
				w := httptest.NewRecorder()
				handler.HandleGetStandings(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest("GET", "/standings?limit=6", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)

			Convey("Then it should report the exceeded limit", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the store returns an error", func() {
			deps.mockStandings.topNErr = fmt.Errorf("store error")
			req := httptest.NewRequest("GET", "/standings?limit=2", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestStandingsHandler_HandleGetRank(t *testing.T) {
	Convey("Given a standings handler", t, func() {
		deps := newDeps()
		handler := api.NewStandingsHandler(deps, 100)

		Convey("When requesting the rank of a known contestant", func() {
			req := httptest.NewRequest("GET", "/standings/mehmet", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)

			Convey("Then it should return the standing", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var response types.Standing
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.ContestantID, ShouldEqual, "mehmet")
				So(response.Rank, ShouldEqual, 2)
			})
		})

		Convey("When the contestant is unknown", func() {
			deps.mockStandings.rankErr = fmt.Errorf("lookup: %w", repository.ErrNotFound)
			req := httptest.NewRequest("GET", "/standings/nobody", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				var resp errorResponse
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "not_found")
				So(resp.Message, ShouldStartWith, "api.get_rank: not found: lookup:")
			})
		})

		Convey("When the store fails otherwise", func() {
			deps.mockStandings.rankErr = fmt.Errorf("store error")
			req := httptest.NewRequest("GET", "/standings/mehmet", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the contestant id is missing", func() {
			req := httptest.NewRequest("GET", "/standings/", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			handler.HandleHealth(w, req)

			Convey("Then it should expose the service metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "quizpattern_")
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]any{
				"contestants": 1000,
				"events":      15000,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then it should return stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var response map[string]any
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response["contestants"], ShouldEqual, 1000.0)
				So(response["events"], ShouldEqual, 15000.0)
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("boom")

		So(errors.Is(api.NewKind("op", api.ErrBadRequest), api.ErrBadRequest), ShouldBeTrue)
		wrapped := api.WrapKind("op", api.ErrBadRequest, cause)
		So(errors.Is(wrapped, api.ErrBadRequest), ShouldBeTrue)
		So(errors.Is(wrapped, cause), ShouldBeTrue)
		So(api.Wrap("op", cause).Error(), ShouldEqual, "op: boom")
		So(errors.Is(api.WrapKind("op", api.ErrNotFound, cause), api.ErrNotFound), ShouldBeTrue)
	})
}
