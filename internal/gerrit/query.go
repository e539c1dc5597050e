package gerrit

import (
	"context"
	"net/url"
	"strconv"
)

// QueryOptions tunes a change search.
type QueryOptions struct {
	// Limit caps the total number of results; 0 means server default.
	Limit int
	// Options are Gerrit output options (o= parameters), e.g.
	// "CURRENT_REVISION".
	Options []string
}

// QueryChanges searches for changes, following the _more_changes
// continuation marker until the limit (or the result set) is exhausted.
func (c *Client) QueryChanges(ctx context.Context, search string, opts QueryOptions) ([]ChangeInfo, error) {
	var out []ChangeInfo
	start := 0
	more := true
	for more {
		params := url.Values{}
		params.Set("q", search)
		if opts.Limit > 0 {
			params.Set("n", strconv.Itoa(opts.Limit-start))
		}
		if start > 0 {
			params.Set("S", strconv.Itoa(start))
		}
		for _, o := range opts.Options {
			params.Add("o", o)
		}

		var batch []ChangeInfo
		err := c.getJSON(ctx, "/changes/?"+params.Encode(), "query changes", &batch)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		more = false
		for _, ci := range batch {
			start++
			more = ci.MoreChanges
			out = append(out, ci)
			if opts.Limit > 0 && start >= opts.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// ChangeDetail fetches the detail view of a single change.
func (c *Client) ChangeDetail(ctx context.Context, changeID string) (map[string]any, error) {
	var detail map[string]any
	err := c.getJSON(ctx, "/changes/"+url.PathEscape(changeID)+"/detail", "change detail", &detail)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
