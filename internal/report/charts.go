package report

import (
	"sales-dashboard/internal/metrics"
)

func failed(c ChartSpec, err error) ChartSpec {
	c.Error = errorMessage(err)
	c.Categories = nil
	c.Series = nil
	return c
}

// rankingChart sorts ascending so a horizontal bar renderer draws the
// largest value on top. topN > 0 keeps only the n largest.
func rankingChart(c ChartSpec, res metrics.Result, topN int) ChartSpec {
	c.Kind = ChartHorizontalBar
	c.Labels = LabelOutside
	c.TopN = topN
	if res.Err != nil {
		return failed(c, res.Err)
	}

	agg := res.Aggregate.Top(topN)
	c.Categories = agg.Keys()
	c.Series = []Series{newSeries(c.ValueLabel, agg.Values(), c.Format)}
	return c
}

// timeSeriesChart keeps the deriver's ascending bucket order and labels
// every point.
func timeSeriesChart(c ChartSpec, res metrics.Result) ChartSpec {
	c.Kind = ChartLine
	c.Labels = LabelTop
	if res.Err != nil {
		return failed(c, res.Err)
	}

	c.Categories = res.Aggregate.Keys()
	c.Series = []Series{newSeries(c.ValueLabel, res.Aggregate.Values(), c.Format)}
	return c
}

func pieChart(c ChartSpec, res metrics.Result) ChartSpec {
	c.Kind = ChartPie
	if res.Err != nil {
		return failed(c, res.Err)
	}

	c.Categories = res.Aggregate.Keys()
	c.Series = []Series{newSeries(c.ValueLabel, res.Aggregate.Values(), c.Format)}
	return c
}

// dualBarChart pairs two aggregates over the same categories.
func dualBarChart(c ChartSpec, left, right metrics.Result, leftName, rightName string) ChartSpec {
	c.Kind = ChartBar
	c.Labels = LabelOutside
	if left.Err != nil {
		return failed(c, left.Err)
	}
	if right.Err != nil {
		return failed(c, right.Err)
	}

	keys, l, r := metrics.Align(left.Aggregate, right.Aggregate)
	c.Categories = keys
	c.Series = []Series{
		newSeries(leftName, l, c.Format),
		newSeries(rightName, r, c.Format),
	}
	return c
}
