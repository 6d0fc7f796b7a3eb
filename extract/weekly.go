package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/mylucky2d3d/crawler/lottery"
)

var weeklyHeader = regexp.MustCompile(`(\d{2}/\w{3}/\d{4})\s*-\s*(\w+)`)

// Weekly reads the 2D history page. Records come out in page order.
type Weekly struct {
	Classifier Classifier
}

func NewWeekly(c Classifier) *Weekly {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Weekly{Classifier: c}
}

func (w *Weekly) Extract(doc *goquery.Document) ([]lottery.WeeklyRecord, error) {
	if err := checkDocument("weekly", doc); err != nil {
		return nil, err
	}

	var (
		records []lottery.WeeklyRecord
		current *lottery.WeeklyRecord
	)

	doc.Find(".row").Each(func(_ int, row *goquery.Selection) {
		if m := weeklyHeader.FindStringSubmatch(Text(row, "h4.section-title.text-center")); m != nil {
			if current != nil {
				records = append(records, *current)
			}
			rec := lottery.NewWeeklyRecord(m[1], m[2])
			current = &rec
		}
		if current == nil {
			return
		}

		cards := Cards(row)
		if cards.Length() != 2 {
			return
		}
		if w.Classifier.Classify(cards.First()) == Supplementary {
			cards.Each(func(_ int, card *goquery.Selection) {
				fillSupplementary(card, &current.Additional)
			})
			return
		}
		fillDraw(cards.Eq(0), &current.AM)
		fillDraw(cards.Eq(1), &current.PM)
	})

	if current != nil {
		records = append(records, *current)
	}
	return records, nil
}

func fillDraw(card *goquery.Selection, d *lottery.Draw) {
	if lucky := card.Find(".blockLucky"); lucky.Length() > 0 {
		d.Result = Text(card, ".blockLucky")
	}
	if cells := Texts(card, ".blockValStyle"); len(cells) >= 2 {
		d.Set, d.Value = cells[0], cells[1]
	}
}
