/*
Package analysis runs several stability estimators over one phase record
and exchanges the results with other tools.

Example usage:

	cfg := analysis.DefaultConfig()
	cfg.Workers = 2
	report, err := analysis.Run(ctx, series, cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range report.Summaries() {
		fmt.Printf("%s: %d points, slope %.2f\n", s.Kind, s.Points, s.Slope)
	}

Reports convert to reference fixtures (NewFixture, WriteFixture), can be
checked against fixtures produced elsewhere (CompareFixture) and exported
to a spreadsheet (WriteWorkbook).
*/
package analysis
