package importer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/models"
)

// CheckOutcome classifies one revisit of a source link.
type CheckOutcome string

const (
	OutcomeUnchanged CheckOutcome = "unchanged"
	OutcomeChanged   CheckOutcome = "changed"
	OutcomeClosed    CheckOutcome = "closed"
	OutcomeFailed    CheckOutcome = "failed"
)

type CheckResult struct {
	OpportunityID string
	Title         string
	URL           string
	Outcome       CheckOutcome
	Err           error
}

type CheckSummary struct {
	Checked   int
	Unchanged int
	Changed   int
	Closed    int
	Failed    int
}

// LinkChecker revisits opportunities' source links, snapshots content
// changes, and closes listings whose pages are gone.
type LinkChecker struct {
	store *db.Store

	UserAgent   string
	Timeout     time.Duration
	DomainDelay time.Duration
	MaxBodySize int
	Parallelism int
}

func NewLinkChecker(store *db.Store) *LinkChecker {
	return &LinkChecker{
		store:       store,
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Timeout:     30 * time.Second,
		DomainDelay: 1 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
		Parallelism: 2,
	}
}

func (lc *LinkChecker) buildCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(lc.UserAgent),
		colly.MaxBodySize(lc.MaxBodySize),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: lc.Parallelism,
		Delay:       lc.DomainDelay,
		RandomDelay: lc.DomainDelay / 2,
	})
	c.SetRequestTimeout(lc.Timeout)
	c.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           safeDialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})
	c.SetRedirectHandler(safeCheckRedirect)
	return c
}

type pageFetch struct {
	status int
	body   []byte
	err    error
}

// CheckAll revisits up to limit opportunities, least recently checked
// first. Visits are sequential; the collector's limit rule spaces out
// requests to the same domain.
func (lc *LinkChecker) CheckAll(ctx context.Context, limit int) ([]CheckResult, CheckSummary, error) {
	opps, err := lc.store.OpportunitiesWithSourceLinks(ctx, limit)
	if err != nil {
		return nil, CheckSummary{}, err
	}

	c := lc.buildCollector()
	var current *pageFetch
	c.OnResponse(func(r *colly.Response) {
		current.status = r.StatusCode
		current.body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			current.status = r.StatusCode
			current.body = r.Body
		}
		current.err = err
	})

	results := make([]CheckResult, 0, len(opps))
	summary := CheckSummary{}
	for _, opp := range opps {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}

		current = &pageFetch{}
		if err := c.Visit(opp.SourceLink); err != nil && current.err == nil {
			current.err = err
		}

		res := lc.resolve(ctx, opp, current)
		results = append(results, res)
		summary.Checked++
		switch res.Outcome {
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomeChanged:
			summary.Changed++
		case OutcomeClosed:
			summary.Closed++
		case OutcomeFailed:
			summary.Failed++
			log.Printf("[check] %s (%s): %v", opp.Title, opp.SourceLink, res.Err)
		}
	}
	return results, summary, nil
}

func (lc *LinkChecker) resolve(ctx context.Context, opp models.Opportunity, fetch *pageFetch) CheckResult {
	res := CheckResult{
		OpportunityID: opp.ID.String(),
		Title:         opp.Title,
		URL:           opp.SourceLink,
	}

	switch {
	case fetch.status == http.StatusNotFound || fetch.status == http.StatusGone:
		if err := lc.store.MarkOpportunityClosed(ctx, opp.ID.String()); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		if err := lc.store.TouchLastChecked(ctx, opp.ID); err != nil {
			log.Printf("[check] stamp %s: %v", opp.Title, err)
		}
		res.Outcome = OutcomeClosed
		return res

	case fetch.err != nil:
		res.Outcome = OutcomeFailed
		res.Err = fetch.err
		return res

	case fetch.status != http.StatusOK:
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("unexpected status code: %d", fetch.status)
		return res
	}

	text := htmlToText(string(fetch.body))
	hash := contentHash(text)

	prevHash, err := lc.store.LatestVersionHash(ctx, opp.ID)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	if hash != prevHash {
		v := models.OpportunityVersion{
			OpportunityID:   opp.ID,
			SourceLink:      opp.SourceLink,
			DescriptionText: truncateText(text, 4000),
			ContentHash:     hash,
			Changed:         true,
		}
		if err := lc.store.InsertVersion(ctx, &v); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		res.Outcome = OutcomeChanged
	} else {
		res.Outcome = OutcomeUnchanged
	}

	if err := lc.store.TouchLastChecked(ctx, opp.ID); err != nil {
		log.Printf("[check] stamp %s: %v", opp.Title, err)
	}
	return res
}
