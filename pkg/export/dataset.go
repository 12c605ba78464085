package export

// Dataset defines tabular export content. Rows are positional and must match
// the header order.
type Dataset struct {
	Headers []string
	Rows    [][]string
}
