package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/speculor/internal/models"
)

// Keyword anchors and numeric patterns for best-effort extraction from
// free-text analyst pages. Extractors return nil/zero on any mismatch,
// never an error.
var (
	dollarPattern  = regexp.MustCompile(`\$([0-9,]+\.?[0-9]*)`)
	decimalPattern = regexp.MustCompile(`^[0-9,]+\.[0-9]+$`)
	analystPattern = regexp.MustCompile(`(\d+)\s*analysts?`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

var (
	targetAnchors = []string{"price target", "consensus", "mean target"}
	buyKeywords   = []string{"buy", "strong buy"}
	holdKeywords  = []string{"hold", "neutral"}
	sellKeywords  = []string{"sell", "strong sell"}
)

// ParseDollarAmount extracts the first dollar amount from text.
// Comma-grouped values are tolerated ("$1,234.50").
func ParseDollarAmount(text string) (float64, bool) {
	m := dollarPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseAnalystCount extracts an "N analysts" count from text.
func ParseAnalystCount(text string) (int, bool) {
	m := analystPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindConsensusTarget scans the document for a dollar amount appearing in an
// element whose text carries a price-target anchor.
func FindConsensusTarget(doc *goquery.Document) *float64 {
	var target *float64

	doc.Find("span, div, td").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !dollarPattern.MatchString(text) {
			return true
		}
		lower := strings.ToLower(text)
		for _, anchor := range targetAnchors {
			if strings.Contains(lower, anchor) {
				if v, ok := ParseDollarAmount(text); ok && v > 0 {
					target = models.Float(v)
					return false
				}
			}
		}
		return true
	})

	return target
}

// FindAnalystCount scans the document for an "N analysts" phrase.
func FindAnalystCount(doc *goquery.Document) *int {
	var count *int

	doc.Find("span, div, td, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if n, ok := ParseAnalystCount(sel.Text()); ok && n > 0 {
			count = models.Int(n)
			return false
		}
		return true
	})

	return count
}

// FindRatingCounts extracts buy/hold/sell rating counts from cells whose
// surrounding row text names the rating bucket.
func FindRatingCounts(doc *goquery.Document) models.RatingDistribution {
	var dist models.RatingDistribution

	doc.Find("td, span").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if !digitsPattern.MatchString(text) {
			return
		}
		parent := sel.Parent()
		if parent == nil {
			return
		}
		parentText := strings.ToLower(parent.Text())
		n, err := strconv.Atoi(text)
		if err != nil {
			return
		}

		switch {
		case containsAny(parentText, buyKeywords) && !containsAny(parentText, sellKeywords):
			dist.Buy = n
		case containsAny(parentText, holdKeywords):
			dist.Hold = n
		case containsAny(parentText, sellKeywords) && !containsAny(parentText, buyKeywords):
			dist.Sell = n
		}
	})

	return dist
}

// FindLabeledTargets extracts mean/high/low analyst targets from numeric
// elements whose parent text names the target kind.
func FindLabeledTargets(doc *goquery.Document) (mean, high, low *float64) {
	doc.Find("span, div, td").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if !decimalPattern.MatchString(text) {
			return
		}
		parent := sel.Parent()
		if parent == nil {
			return
		}
		parentText := strings.ToLower(parent.Text())

		v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
		if err != nil || v <= 0 {
			return
		}

		switch {
		case strings.Contains(parentText, "mean target") || strings.Contains(parentText, "average"):
			if mean == nil {
				mean = models.Float(v)
			}
		case strings.Contains(parentText, "high target") || strings.Contains(parentText, "highest"):
			if high == nil {
				high = models.Float(v)
			}
		case strings.Contains(parentText, "low target") || strings.Contains(parentText, "lowest"):
			if low == nil {
				low = models.Float(v)
			}
		}
	})

	return mean, high, low
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
