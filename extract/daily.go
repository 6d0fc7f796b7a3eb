package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/mylucky2d3d/crawler/lottery"
)

// Daily reads the main page.
type Daily struct {
	Classifier Classifier
}

func NewDaily(c Classifier) *Daily {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Daily{Classifier: c}
}

func (d *Daily) Extract(doc *goquery.Document) (lottery.DailyRecord, error) {
	if err := checkDocument("daily", doc); err != nil {
		return lottery.DailyRecord{}, err
	}
	root := doc.Selection

	r := lottery.NewDailyRecord()
	r.Title = Text(root, ".section-title")
	r.Date = Text(root, ".section-subtitle")
	r.LiveNumber = Text(root, "#luckyNumbWrp")
	r.UpdatedTime = Text(root, "#updTimeWrp")

	r.AM.Result = Text(root, "#amLuckyWrp")
	r.AM.Set = Text(root, "#amSetWrp")
	r.AM.Value = Text(root, "#amValueWrp")
	r.PM.Result = Text(root, "#pmLuckyWrp")
	r.PM.Set = Text(root, "#pmSetWrp")
	r.PM.Value = Text(root, "#pmValueWrp")

	Cards(root).Each(func(_ int, card *goquery.Selection) {
		if d.Classifier.Classify(card) == Supplementary {
			fillSupplementary(card, &r.Additional)
		}
	})

	return r, nil
}

// fillSupplementary reads a Modern/Internet card: header row of at least three
// cells, value row of at least two.
func fillSupplementary(card *goquery.Selection, a *lottery.Additional) bool {
	header := TableCells(card, 0)
	values := TableCells(card, 1)
	if len(header) < 3 || len(values) < 2 {
		return false
	}
	return a.SetSupplementary(header[0], values[0], values[1])
}
