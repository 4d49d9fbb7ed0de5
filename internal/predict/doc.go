// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

/*
Package predict provides the heuristic predictive analytics of the
marketplace: booking cancellation risk and demand forecasting.

# Cancellation Risk

RiskPredictor scores a booking with six weighted factors, always reported in
the same order:

	customer_history      0.25  customer cancellation rate (prior 0.2 below 3 bookings)
	professional_history  0.20  professional rejection/cancellation rate (prior 0.15 below 5)
	lead_time             0.15  <1 day 0.4, <3 days 0.2, >30 days 0.3, else 0.1
	price_deviation       0.15  >100% off the customer's mean 0.4, >50% 0.3, else 0.1
	first_time            0.10  0.3 when the pair never completed a booking
	category_rate         0.15  category cancellation rate (prior 0.15 below 10)

The weighted sum is rounded to three decimals and bucketed into LOW (<0.2),
MODERATE (<0.4), HIGH (<0.6) and VERY_HIGH.

# Demand Forecast

Forecaster predicts one point per day starting today. Each point averages
the weekly counts for that weekday over the lookback window (12 weeks by
default). Trend compares the most recent four weeks with the oldest four;
confidence depends on the total number of bookings behind the point.
PeakHours ranks hours of the day by scheduled bookings.

Both types read aggregates through history.Provider and are safe for
concurrent use.
*/
package predict
