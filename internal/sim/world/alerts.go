package world

import "github.com/google/uuid"

// Alert kinds.
const (
	AlertWarning          = "warning"
	AlertInfo             = "info"
	AlertSuccess          = "success"
	AlertSatelliteInsight = "satellite_insight"
)

type Alert struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Day        int    `json:"day"`
	FieldID    string `json:"field_id,omitempty"`
	DataSource string `json:"data_source,omitempty"`
}

// AlertLogger is an optional durable sink for raised alerts.
// Implemented in internal/persistence/log.
type AlertLogger interface {
	WriteAlert(a Alert) error
}

func (w *World) AddAlert(kind, message string) {
	w.addAlert(Alert{Kind: kind, Message: message})
}

func (w *World) AddFieldAlert(kind, message, fieldID string) {
	w.addAlert(Alert{Kind: kind, Message: message, FieldID: fieldID})
}

// AddSatelliteInsight raises a satellite-tagged insight alert and
// counts it as a data usage.
func (w *World) AddSatelliteInsight(message, satellite string) {
	w.addAlert(Alert{Kind: AlertSatelliteInsight, Message: message, DataSource: satellite})
	w.RecordDataUsage()
}

func (w *World) addAlert(a Alert) {
	a.ID = uuid.NewString()
	a.Day = w.day
	w.alerts = append(w.alerts, a)
	if w.alertLogger != nil {
		_ = w.alertLogger.WriteAlert(a)
	}
}

func (w *World) DismissAlert(id string) {
	kept := w.alerts[:0]
	for _, a := range w.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	w.alerts = kept
}

func (w *World) ClearAlerts() { w.alerts = nil }

// Alerts returns a copy for presentation.
func (w *World) Alerts() []Alert {
	out := make([]Alert, len(w.alerts))
	copy(out, w.alerts)
	return out
}
