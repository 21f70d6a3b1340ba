package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/russross/blackfriday"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/logger"
)

const sharePageSightingLimit = 5

type LostAlertReader interface {
	GetByID(ctx context.Context, alertID string) (*domain.LostAlert, error)
	CountSightings(ctx context.Context, alertID string) (int, error)
	GetRecentSightings(ctx context.Context, alertID string, limit int) ([]domain.Sighting, error)
}

var sharePageTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Lost dog: {{.DogName}}</title>
</head>
<body>
<h1>Lost dog: {{.DogName}}</h1>
<p><strong>Last seen:</strong> {{.LastSeen}}</p>
<p><strong>Status:</strong> {{.Status}}, {{.SightingCount}} reported sighting(s)</p>
{{.Description}}
{{if .Sightings}}<h2>Recent sightings</h2>
<ul>
{{range .Sightings}}<li>{{.SightedAt.Format "Jan 2, 15:04"}}{{if .Note}}: {{.Note}}{{end}}</li>
{{end}}</ul>
{{end}}<p>Seen this dog? Open the RedPaw app to report a sighting.</p>
</body>
</html>
`))

type shareLostAlert struct {
	alerts LostAlertReader
}

func NewShareLostAlert(alerts LostAlertReader) *shareLostAlert {
	return &shareLostAlert{alerts: alerts}
}

// Show renders the public share page for one lost-dog alert. The alert
// description is owner-authored markdown.
func (s *shareLostAlert) Show(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")

	alert, err := s.alerts.GetByID(r.Context(), alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Fetching lost alert", "alert_id", alertID, logger.Err(err))
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	count, err := s.alerts.CountSightings(r.Context(), alertID)
	if err != nil {
		slog.WarnContext(r.Context(), "Counting sightings", "alert_id", alertID, logger.Err(err))
	}

	sightings, err := s.alerts.GetRecentSightings(r.Context(), alertID, sharePageSightingLimit)
	if err != nil {
		slog.WarnContext(r.Context(), "Fetching sightings", "alert_id", alertID, logger.Err(err))
	}

	page := struct {
		DogName       string
		LastSeen      string
		Status        string
		SightingCount int
		Sightings     []domain.Sighting
		Description   template.HTML
	}{
		DogName:       alert.DogName,
		LastSeen:      alert.LastSeenAt.Format("January 2, 2006 at 15:04"),
		Status:        alert.Status,
		SightingCount: count,
		Sightings:     sightings,
		Description:   template.HTML(blackfriday.MarkdownCommon([]byte(alert.Description))),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sharePageTemplate.Execute(w, page); err != nil {
		slog.ErrorContext(r.Context(), "Rendering share page", logger.Err(err))
	}
}
