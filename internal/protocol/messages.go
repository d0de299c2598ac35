package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	FarmParams      FarmParams     `json:"farm_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type FarmParams struct {
	Seed             int64  `json:"seed"`
	SeasonLengthDays int    `json:"season_length_days"`
	LocationName     string `json:"location_name"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
}

type CatalogDigests struct {
	Plants DigestRef `json:"plants"`
	Items  DigestRef `json:"items"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// ACT (client -> server): one player action request.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"` // "PURCHASE_FIELD","PLANT","APPLY_ITEM","HARVEST","CLEAR","ADVANCE","PURCHASE_ITEM","DISMISS_ALERT"
	FieldID         string `json:"field_id,omitempty"`
	CropID          string `json:"crop_id,omitempty"`
	ItemID          string `json:"item_id,omitempty"`
	AlertID         string `json:"alert_id,omitempty"`
	Quantity        int    `json:"quantity,omitempty"`
	Days            int    `json:"days,omitempty"`
}

// RESULT (server -> client): outcome of an ACT.
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// STATE (server -> client): read-only world snapshot for presentation.
type StateMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Day             int          `json:"day"`
	Season          string       `json:"season"`
	Money           int          `json:"money"`
	Weather         WeatherView  `json:"weather"`
	Fields          []FieldView  `json:"fields"`
	Progress        ProgressView `json:"progress"`
	Alerts          []AlertView  `json:"alerts"`
}

type WeatherView struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Condition     string  `json:"condition"`
	SoilMoisture  float64 `json:"soil_moisture"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	UVIndex       int     `json:"uv_index"`
}

type FieldView struct {
	ID             string  `json:"id"`
	Q              int     `json:"q"`
	R              int     `json:"r"`
	S              int     `json:"s"`
	Owned          bool    `json:"owned"`
	PurchasePrice  int     `json:"purchase_price"`
	SoilQuality    float64 `json:"soil_quality"`
	ConditionColor string  `json:"condition_color"`
	Crop           *CropView `json:"crop,omitempty"`
}

type CropView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Stage        int     `json:"stage"`
	TotalStages  int     `json:"total_stages"`
	Health       float64 `json:"health"`
	Water        float64 `json:"water"`
	Fertilizer   float64 `json:"fertilizer"`
	Diseased     bool    `json:"diseased"`
	Mature       bool    `json:"mature"`
	HarvestValue int     `json:"harvest_value"`
}

type ProgressView struct {
	Level        int     `json:"level"`
	Experience   float64 `json:"experience"`
	NextLevelExp float64 `json:"next_level_exp"`
}

type AlertView struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Day        int    `json:"day"`
	FieldID    string `json:"field_id,omitempty"`
	DataSource string `json:"data_source,omitempty"`
}
