package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_BucketMidpoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		field  string
		value  string
		expect float64
	}{
		{"temperature", "Cool", 18},
		{"temperature", "Moderate", 25},
		{"temperature", "Hot", 32},
		{"humidity", "Low", 30},
		{"humidity", "Medium", 55},
		{"humidity", "High", 80},
		{"rainfall", "Low", 400},
		{"rainfall", "Medium", 750},
		{"rainfall", "High", 1200},
	}

	for _, tc := range cases {
		t.Run(tc.field+"_"+tc.value, func(t *testing.T) {
			t.Parallel()

			form := FormFields{Location: "Nashik"}
			switch tc.field {
			case "temperature":
				form.Temperature = tc.value
			case "humidity":
				form.Humidity = tc.value
			case "rainfall":
				form.Rainfall = tc.value
			}

			inputs, err := Normalize(form)
			require.NoError(t, err)

			var got *float64
			switch tc.field {
			case "temperature":
				got = inputs.Temperature
			case "humidity":
				got = inputs.Humidity
			case "rainfall":
				got = inputs.Rainfall
			}
			require.NotNil(t, got)
			assert.InDelta(t, tc.expect, *got, 0.001)
		})
	}
}

func TestNormalize_UnsetBucketsAreNil(t *testing.T) {
	t.Parallel()

	inputs, err := Normalize(FormFields{Location: "Nashik"})
	require.NoError(t, err)

	assert.Nil(t, inputs.Temperature)
	assert.Nil(t, inputs.Humidity)
	assert.Nil(t, inputs.Rainfall)
	assert.Nil(t, inputs.LandSize)
	assert.Nil(t, inputs.ManualSoil)
	assert.Nil(t, inputs.PreviousCrop)
	assert.Nil(t, inputs.IrrigationType)
	assert.Nil(t, inputs.Goal)
}

func TestNormalize_UnknownBucketRejected(t *testing.T) {
	t.Parallel()

	_, err := Normalize(FormFields{Location: "Nashik", Temperature: "Scorching"})
	assert.Error(t, err)
}

func TestNormalize_ManualSoilAllEmptyIsNil(t *testing.T) {
	t.Parallel()

	inputs, err := Normalize(FormFields{Location: "Nashik"})
	require.NoError(t, err)
	assert.Nil(t, inputs.ManualSoil)
}

func TestNormalize_ManualSoilDefaults(t *testing.T) {
	t.Parallel()

	// A single entered field populates the whole block with defaults.
	inputs, err := Normalize(FormFields{Location: "Nashik", SoilN: "80"})
	require.NoError(t, err)

	require.NotNil(t, inputs.ManualSoil)
	assert.InDelta(t, 80, inputs.ManualSoil.N, 0.001)
	assert.InDelta(t, 0, inputs.ManualSoil.P, 0.001)
	assert.InDelta(t, 0, inputs.ManualSoil.K, 0.001)
	assert.InDelta(t, 7, inputs.ManualSoil.Ph, 0.001)
}

func TestNormalize_ManualSoilFull(t *testing.T) {
	t.Parallel()

	inputs, err := Normalize(FormFields{
		Location: "Nashik",
		SoilN:    "80", SoilP: "40", SoilK: "35", SoilPh: "6.8",
	})
	require.NoError(t, err)

	require.NotNil(t, inputs.ManualSoil)
	assert.InDelta(t, 80, inputs.ManualSoil.N, 0.001)
	assert.InDelta(t, 40, inputs.ManualSoil.P, 0.001)
	assert.InDelta(t, 35, inputs.ManualSoil.K, 0.001)
	assert.InDelta(t, 6.8, inputs.ManualSoil.Ph, 0.001)
}

func TestNormalize_LandSize(t *testing.T) {
	t.Parallel()

	inputs, err := Normalize(FormFields{Location: "Nashik", LandSize: "3.5"})
	require.NoError(t, err)
	require.NotNil(t, inputs.LandSize)
	assert.InDelta(t, 3.5, *inputs.LandSize, 0.001)

	_, err = Normalize(FormFields{Location: "Nashik", LandSize: "three"})
	assert.Error(t, err)
}

func TestNormalize_PuneScenario(t *testing.T) {
	t.Parallel()

	inputs, err := Normalize(FormFields{
		Location:    "Pune",
		Temperature: "Hot",
		Humidity:    "",
		Rainfall:    "Low",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pune", inputs.Location)
	require.NotNil(t, inputs.Temperature)
	assert.InDelta(t, 32, *inputs.Temperature, 0.001)
	assert.Nil(t, inputs.Humidity)
	require.NotNil(t, inputs.Rainfall)
	assert.InDelta(t, 400, *inputs.Rainfall, 0.001)
	assert.Nil(t, inputs.ManualSoil)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	form := FormFields{Location: "Pune", Temperature: "Hot", SoilK: "12"}
	first, err := Normalize(form)
	require.NoError(t, err)
	second, err := Normalize(form)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
