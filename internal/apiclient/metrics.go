package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

func requireCount(op, field string, v *int64) (int64, error) {
	if v == nil {
		return 0, decodeError(op, fmt.Errorf("missing field %q", field))
	}
	if *v < 0 {
		return 0, decodeError(op, fmt.Errorf("field %q is negative: %d", field, *v))
	}
	return *v, nil
}

// GetTotalUsers returns the total number of registered users.
func (c *Client) GetTotalUsers(ctx context.Context) (int64, error) {
	var resp totalUsersResponse
	if err := c.getJSON(ctx, pathTotalUsers, nil, opTotalUsers, &resp); err != nil {
		return 0, err
	}
	return requireCount(opTotalUsers, "total_users", resp.TotalUsers)
}

// GetActiveUsers returns the number of users active within the last days.
func (c *Client) GetActiveUsers(ctx context.Context, days int) (int64, error) {
	var resp activeUsersResponse
	if err := c.getJSON(ctx, pathActiveUsers, daysQuery(days), opActiveUsers, &resp); err != nil {
		return 0, err
	}
	return requireCount(opActiveUsers, "active_users", resp.ActiveUsers)
}

// GetUserRetention returns the retention rate as a percentage.
func (c *Client) GetUserRetention(ctx context.Context) (float64, error) {
	var resp retentionResponse
	if err := c.getJSON(ctx, pathRetention, nil, opRetention, &resp); err != nil {
		return 0, err
	}
	if resp.RetentionRate == nil {
		return 0, decodeError(opRetention, fmt.Errorf("missing field %q", "retention_rate"))
	}
	rate := *resp.RetentionRate
	if rate < 0 || rate > 100 {
		return 0, decodeError(opRetention, fmt.Errorf("retention_rate %v outside [0,100]", rate))
	}
	return rate, nil
}

// GetTotalGroups returns the total number of groups.
func (c *Client) GetTotalGroups(ctx context.Context) (int64, error) {
	var resp totalGroupsResponse
	if err := c.getJSON(ctx, pathTotalGroups, nil, opTotalGroups, &resp); err != nil {
		return 0, err
	}
	return requireCount(opTotalGroups, "total_groups", resp.TotalGroups)
}

// GetActiveGroups returns the number of groups active within the last days.
func (c *Client) GetActiveGroups(ctx context.Context, days int) (int64, error) {
	var resp activeGroupsResponse
	if err := c.getJSON(ctx, pathActiveGroups, daysQuery(days), opActiveGroups, &resp); err != nil {
		return 0, err
	}
	return requireCount(opActiveGroups, "active_groups", resp.ActiveGroups)
}

// GetTotalMessages returns the total number of messages sent.
func (c *Client) GetTotalMessages(ctx context.Context) (int64, error) {
	var resp totalMessagesResponse
	if err := c.getJSON(ctx, pathTotalMessages, nil, opTotalMessages, &resp); err != nil {
		return 0, err
	}
	return requireCount(opTotalMessages, "total_messages", resp.TotalMessages)
}

// GetDailyMessages returns the number of messages sent today.
func (c *Client) GetDailyMessages(ctx context.Context) (int64, error) {
	var resp dailyMessagesResponse
	if err := c.getJSON(ctx, pathDailyMessages, nil, opDailyMessages, &resp); err != nil {
		return 0, err
	}
	return requireCount(opDailyMessages, "daily_messages", resp.DailyMessages)
}

// GetAllMetrics fetches the seven counters concurrently and merges them into
// one snapshot. The first failure cancels the remaining calls and is returned;
// no partial snapshot is ever produced.
func (c *Client) GetAllMetrics(ctx context.Context) (model.MetricsSnapshot, error) {
	var (
		totalUsers, activeUsers, totalGroups, activeGroups int64
		totalMessages, dailyMessages                       int64
		retention                                          float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalUsers, err = c.GetTotalUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		activeUsers, err = c.GetActiveUsers(gctx, c.activeDays)
		return err
	})
	g.Go(func() (err error) {
		retention, err = c.GetUserRetention(gctx)
		return err
	})
	g.Go(func() (err error) {
		totalGroups, err = c.GetTotalGroups(gctx)
		return err
	})
	g.Go(func() (err error) {
		activeGroups, err = c.GetActiveGroups(gctx, c.activeDays)
		return err
	})
	g.Go(func() (err error) {
		totalMessages, err = c.GetTotalMessages(gctx)
		return err
	})
	g.Go(func() (err error) {
		dailyMessages, err = c.GetDailyMessages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.MetricsSnapshot{}, err
	}

	return model.MetricsSnapshot{
		TotalUsers:    totalUsers,
		ActiveUsers:   activeUsers,
		UserRetention: retention,
		TotalGroups:   totalGroups,
		ActiveGroups:  activeGroups,
		TotalMessages: totalMessages,
		DailyMessages: dailyMessages,
		FetchedAt:     time.Now(),
	}, nil
}

// GetMetricsByDateRange returns the daily user activity between start and end
// inclusive. An empty series is a valid result.
func (c *Client) GetMetricsByDateRange(ctx context.Context, start, end time.Time) (model.UserActivitySeries, error) {
	query := url.Values{
		"start_date": {model.FormatDate(start)},
		"end_date":   {model.FormatDate(end)},
	}
	var resp dateRangeResponse
	if err := c.getJSON(ctx, pathByDateRange, query, opByDateRange, &resp); err != nil {
		return model.UserActivitySeries{}, err
	}

	series := model.UserActivitySeries{Metrics: make([]model.UserActivityPoint, 0, len(resp.Metrics))}
	for i, p := range resp.Metrics {
		date, err := model.ParseDate(p.Date)
		if err != nil {
			return model.UserActivitySeries{}, decodeError(opByDateRange, fmt.Errorf("metrics[%d].date: %w", i, err))
		}
		if p.ActiveUsers < 0 || p.NewUsers < 0 {
			return model.UserActivitySeries{}, decodeError(opByDateRange, fmt.Errorf("metrics[%d] has a negative count", i))
		}
		series.Metrics = append(series.Metrics, model.UserActivityPoint{
			Date:        date,
			ActiveUsers: p.ActiveUsers,
			NewUsers:    p.NewUsers,
		})
	}
	return series, nil
}

// GetMessageHistory returns message counts keyed by day for the last days.
// Callers use Series to obtain them in chronological order.
func (c *Client) GetMessageHistory(ctx context.Context, days int) (model.MessageHistory, error) {
	var resp messageHistoryResponse
	if err := c.getJSON(ctx, pathMessageHistory, daysQuery(days), opMessageHistory, &resp); err != nil {
		return nil, err
	}

	history := make(model.MessageHistory, len(resp.DailyMessageHistory))
	for day, count := range resp.DailyMessageHistory {
		if _, err := model.ParseDate(day); err != nil {
			return nil, decodeError(opMessageHistory, fmt.Errorf("history key %q: %w", day, err))
		}
		if count < 0 {
			return nil, decodeError(opMessageHistory, fmt.Errorf("history %s is negative: %d", day, count))
		}
		history[day] = count
	}
	return history, nil
}
