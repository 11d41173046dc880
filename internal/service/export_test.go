package service

import "time"

// SetClock pins the time and number suffix used for new orders.
func (s *OrderService) SetClock(now func() time.Time, suffix func() string) {
	s.now = now
	s.suffix = suffix
}

// SetClock pins the generation time printed on exported contracts.
func (s *ContractService) SetClock(now func() time.Time) {
	s.now = now
}

// SetClock pins the date used in export filenames.
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}
