package report

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	xlsx "BizDevCRM/internal/lib/report"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubCore struct {
	Core
	filter entity.LeadFilter
	err    error
}

func (s *stubCore) GetLeads(_ context.Context, _ *entity.UserAuth, filter entity.LeadFilter) ([]entity.Lead, error) {
	s.filter = filter
	if s.err != nil {
		return nil, s.err
	}
	return []entity.Lead{
		{ID: "l1", CompanyName: "Acme", Stage: entity.StageWon, Value: 100},
		{ID: "l2", CompanyName: "Globex", Stage: entity.StageNew, Value: 50},
	}, nil
}

func get(handler http.HandlerFunc, url string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, url, nil)
	r = r.WithContext(cont.PutUser(r.Context(), &entity.UserAuth{ID: "m1", Role: entity.ManagerRole}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestLeadsExport(t *testing.T) {
	core := &stubCore{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	w := get(Leads(log, core), "/api/reports/leads?stage=Won&search=ac")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsx.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="leads-`)
	assert.Equal(t, "Won", core.filter.Stage)
	assert.Equal(t, "ac", core.filter.Search)

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLeadsExportForbidden(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := get(Leads(log, &stubCore{err: entity.ErrForbidden}), "/api/reports/leads")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotEqual(t, xlsx.ContentType, w.Header().Get("Content-Type"))
}
