package world

import "cultivar.farm/internal/protocol"

// StateView builds the read-only presentation snapshot. Everything is
// copied by value; the presentation layer never touches live state.
func (w *World) StateView() protocol.StateMsg {
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Day:             w.day,
		Season:          string(w.season),
		Money:           w.money,
		Weather: protocol.WeatherView{
			Temperature:   w.current.Temperature,
			Precipitation: w.current.Precipitation,
			Condition:     string(w.current.Condition),
			SoilMoisture:  w.current.SoilMoisture,
			Humidity:      w.current.Humidity,
			WindSpeed:     w.current.WindSpeed,
			UVIndex:       w.current.UVIndex,
		},
		Progress: protocol.ProgressView{
			Level:        w.progress.Level,
			Experience:   w.progress.Experience,
			NextLevelExp: w.progress.ExpToNext,
		},
	}

	for _, id := range w.FieldIDs() {
		f := w.fields[id]
		fv := protocol.FieldView{
			ID:             f.ID,
			Q:              f.Coord.Q,
			R:              f.Coord.R,
			S:              f.Coord.S,
			Owned:          f.Owned,
			PurchasePrice:  f.PurchasePrice,
			SoilQuality:    f.SoilQuality,
			ConditionColor: f.ConditionColor(),
		}
		if p := f.Plant; p != nil {
			fv.Crop = &protocol.CropView{
				ID:           p.Def.ID,
				Name:         p.Def.Name,
				Stage:        p.Stage,
				TotalStages:  p.Def.GrowthStages,
				Health:       p.Health,
				Water:        p.Water,
				Fertilizer:   p.Fertilizer,
				Diseased:     p.Diseased,
				Mature:       p.IsMature(),
				HarvestValue: p.HarvestValue(),
			}
		}
		msg.Fields = append(msg.Fields, fv)
	}

	for _, a := range w.alerts {
		msg.Alerts = append(msg.Alerts, protocol.AlertView{
			ID:         a.ID,
			Kind:       a.Kind,
			Message:    a.Message,
			Day:        a.Day,
			FieldID:    a.FieldID,
			DataSource: a.DataSource,
		})
	}
	return msg
}
