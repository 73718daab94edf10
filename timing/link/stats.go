package link

import (
	"fmt"
	"io"
)

// Statistics counts the flits a link moved.
type Statistics struct {
	Name string `csv:"link"`
	// TotalFlits is the flit budget summed over all steps.
	TotalFlits uint64 `csv:"total_flits"`
	// TransferFlits counts flits that carried a payload.
	TransferFlits uint64 `csv:"transfer_flits"`
	// SingleFlits counts flits of single-flit packets.
	SingleFlits uint64 `csv:"single_flits"`
	// MultiFlits counts flits of multi-flit packets.
	MultiFlits uint64 `csv:"multi_flits"`
}

func ratio(n, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(n) / float64(total)
}

// Utilization returns the fraction of the budget that carried payloads.
func (s Statistics) Utilization() float64 {
	return ratio(s.TransferFlits, s.TotalFlits)
}

// SingleFlitRatio returns the fraction of the budget used by single-flit
// packets.
func (s Statistics) SingleFlitRatio() float64 {
	return ratio(s.SingleFlits, s.TotalFlits)
}

// MultiFlitRatio returns the fraction of the budget used by multi-flit
// packets.
func (s Statistics) MultiFlitRatio() float64 {
	return ratio(s.MultiFlits, s.TotalFlits)
}

// Print writes one line per counter.
func (s Statistics) Print(w io.Writer) {
	fmt.Fprintf(w, "%s TOT %f (%d/%d)\n",
		s.Name, s.Utilization(), s.TransferFlits, s.TotalFlits)
	fmt.Fprintf(w, "%s SIN %f (%d/%d)\n",
		s.Name, s.SingleFlitRatio(), s.SingleFlits, s.TotalFlits)
	fmt.Fprintf(w, "%s MUL %f (%d/%d)\n",
		s.Name, s.MultiFlitRatio(), s.MultiFlits, s.TotalFlits)
}
