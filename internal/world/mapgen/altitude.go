package mapgen

import "github.com/ashfall-games/worldcore/internal/world/noise"

// altitudeScale converts the continent fBm lane's [-1, 1] output to a
// plausible world altitude range in meters.
const altitudeScale = 900.0

// seaLevel is the altitude below which a cell is considered ocean absent any
// other river classification.
const seaLevel = 0.0

func initialAltitude(basis *noise.Basis, seed int64, x, y int32) float64 {
	fx, fy := float64(x), float64(y)
	base := basis.Continent.Sample(fx, fy)
	// Chaos perturbs altitude locally to avoid a perfectly smooth continent
	// shelf; weighted down so it doesn't dominate the base shape.
	chaos := basis.Chaos.Sample(fx, fy)
	return base*altitudeScale + chaos*altitudeScale*0.15
}

func chaosAt(basis *noise.Basis, x, y int32) float64 {
	return clamp01(basis.Chaos.Sample01(float64(x), float64(y)))
}

func temperatureAt(basis *noise.Basis, x, y int32, alt float64) float64 {
	// Latitude-free world: temperature is purely noise-plus-altitude lapse.
	base := basis.Temperature.Sample(float64(x), float64(y))
	lapse := -alt / altitudeScale * 0.4
	return clampSigned(base + lapse)
}

func humidityAt(basis *noise.Basis, x, y int32) float64 {
	return clamp01(basis.Humidity.Sample01(float64(x), float64(y)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
