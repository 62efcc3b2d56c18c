package utils

// HoursPerMonth is the fixed billing month used to derive the hourly rate.
const HoursPerMonth = 720

const (
	cpuMonthlyRate     = 2.0  // per core
	ramMonthlyRate     = 1.0  // per GB
	storageMonthlyRate = 0.1  // per GB
	ipv4MonthlyRate    = 0.5  // per address
)

type PriceInput struct {
	CPU     int `json:"cpu"`
	RAM     int `json:"ram"`
	Storage int `json:"storage"`
	IPv4    int `json:"ipv4"`
}

type PriceBreakdown struct {
	CPUCost      float64 `json:"cpuCost"`
	RAMCost      float64 `json:"ramCost"`
	StorageCost  float64 `json:"storageCost"`
	IPv4Cost     float64 `json:"ipv4Cost"`
	TotalMonthly float64 `json:"totalMonthly"`
	Hourly       float64 `json:"hourly"`
}

// CalculatePrice maps a resource request to its itemized monthly cost.
// Linear, no tiers. Range enforcement happens upstream in the DTO layer.
func CalculatePrice(in PriceInput) PriceBreakdown {
	breakdown := PriceBreakdown{
		CPUCost:     float64(in.CPU) * cpuMonthlyRate,
		RAMCost:     float64(in.RAM) * ramMonthlyRate,
		StorageCost: float64(in.Storage) * storageMonthlyRate,
		IPv4Cost:    float64(in.IPv4) * ipv4MonthlyRate,
	}
	breakdown.TotalMonthly = breakdown.CPUCost + breakdown.RAMCost + breakdown.StorageCost + breakdown.IPv4Cost
	breakdown.Hourly = breakdown.TotalMonthly / HoursPerMonth
	return breakdown
}
