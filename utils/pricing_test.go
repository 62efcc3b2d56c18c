package utils

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculatePrice(t *testing.T) {
	got := CalculatePrice(PriceInput{CPU: 2, RAM: 8, Storage: 20, IPv4: 1})

	if !almostEqual(got.CPUCost, 4) {
		t.Errorf("cpuCost = %v, want 4", got.CPUCost)
	}
	if !almostEqual(got.RAMCost, 8) {
		t.Errorf("ramCost = %v, want 8", got.RAMCost)
	}
	if !almostEqual(got.StorageCost, 2) {
		t.Errorf("storageCost = %v, want 2", got.StorageCost)
	}
	if !almostEqual(got.IPv4Cost, 0.5) {
		t.Errorf("ipv4Cost = %v, want 0.5", got.IPv4Cost)
	}
	if !almostEqual(got.TotalMonthly, 14.5) {
		t.Errorf("totalMonthly = %v, want 14.5", got.TotalMonthly)
	}
	if !almostEqual(got.Hourly, 14.5/720) {
		t.Errorf("hourly = %v, want %v", got.Hourly, 14.5/720)
	}
}

func TestCalculatePriceLinear(t *testing.T) {
	inputs := []PriceInput{
		{CPU: 0, RAM: 0, Storage: 0, IPv4: 0},
		{CPU: 1, RAM: 1, Storage: 10, IPv4: 1},
		{CPU: 32, RAM: 128, Storage: 2000, IPv4: 10},
		{CPU: 7, RAM: 33, Storage: 512, IPv4: 3},
	}

	for _, in := range inputs {
		got := CalculatePrice(in)
		want := 2*float64(in.CPU) + 1*float64(in.RAM) + 0.1*float64(in.Storage) + 0.5*float64(in.IPv4)
		if !almostEqual(got.TotalMonthly, want) {
			t.Errorf("CalculatePrice(%+v).TotalMonthly = %v, want %v", in, got.TotalMonthly, want)
		}
		sum := got.CPUCost + got.RAMCost + got.StorageCost + got.IPv4Cost
		if !almostEqual(got.TotalMonthly, sum) {
			t.Errorf("CalculatePrice(%+v) total %v does not match item sum %v", in, got.TotalMonthly, sum)
		}
	}
}
