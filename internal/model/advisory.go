package model

// ManualSoil holds farmer-measured soil values. Its presence on
// AdvisoryInputs signals a farmer override; absence means the service
// auto-detects a regional soil profile.
type ManualSoil struct {
	N  float64 `json:"N"`
	P  float64 `json:"P"`
	K  float64 `json:"K"`
	Ph float64 `json:"ph"`
}

// AdvisoryInputs is the request body for both the preview and the advisory
// endpoints. Optional fields are pointers so unset values serialize as
// explicit nulls, matching what the service expects.
type AdvisoryInputs struct {
	Location       string      `json:"location"`
	PreviousCrop   *string     `json:"previous_crop"`
	LandSize       *float64    `json:"land_size"`
	IrrigationType *string     `json:"irrigation_type"`
	Goal           *string     `json:"goal"`
	Temperature    *float64    `json:"temperature"`
	Humidity       *float64    `json:"humidity"`
	Rainfall       *float64    `json:"rainfall"`
	ManualSoil     *ManualSoil `json:"manual_soil"`
}

// WeatherContext is the weather block of a preview snapshot.
type WeatherContext struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

// SoilContext is the soil block of a preview snapshot.
type SoilContext struct {
	N  float64 `json:"N"`
	P  float64 `json:"P"`
	K  float64 `json:"K"`
	Ph float64 `json:"ph"`
}

// PreviewSnapshot is the service's resolved weather/soil context for a
// location, returned by the preview call. It is held between preview and
// confirm and passed through unchanged to the results view.
type PreviewSnapshot struct {
	Location      string         `json:"location"`
	Weather       WeatherContext `json:"weather"`
	Soil          SoilContext    `json:"soil"`
	SoilSource    string         `json:"soil_source"`
	WeatherSource string         `json:"weather_source"`
}

// TopCrop is one entry of the ranked recommendation list; the first entry
// is the primary recommendation.
type TopCrop struct {
	CropName        string  `json:"crop_name"`
	ExpectedYield   float64 `json:"expected_yield"`
	EstimatedProfit float64 `json:"estimated_profit"`
}

// AdvisoryResponse is the raw body of a successful advisory (confirm) call.
type AdvisoryResponse struct {
	RecommendedCrop string    `json:"recommended_crop"`
	ExpectedYield   float64   `json:"expected_yield"`
	EstimatedProfit float64   `json:"estimated_profit"`
	TopCrops        []TopCrop `json:"top_crops"`
	SoilSource      string    `json:"soil_source"`
	WeatherSource   string    `json:"weather_source"`
}

// AdvisoryResult is the final workflow output handed to the results view.
// It exists only in memory; the history store keeps a short summary.
type AdvisoryResult struct {
	RecommendedCrop string          `json:"recommendedCrop"`
	ExpectedYield   float64         `json:"expectedYield"`
	EstimatedProfit float64         `json:"estimatedProfit"`
	TopCrops        []TopCrop       `json:"topCrops"`
	Inputs          AdvisoryInputs  `json:"inputs"`
	InputSummary    PreviewSnapshot `json:"inputSummary"`
	LandSize        *float64        `json:"land_size"`
}
