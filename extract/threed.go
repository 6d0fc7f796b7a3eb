package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mylucky2d3d/crawler/lottery"
)

// ThreeD reads the 3D history page.
type ThreeD struct{}

func NewThreeD() *ThreeD { return &ThreeD{} }

func (ThreeD) Extract(doc *goquery.Document) ([]lottery.ThreeDRecord, error) {
	if err := checkDocument("threeD", doc); err != nil {
		return nil, err
	}

	var records []lottery.ThreeDRecord
	Cards(doc.Selection).Each(func(_ int, card *goquery.Selection) {
		if card.Find(".blockTime").Length() == 0 || card.Find(".blockLucky").Length() == 0 {
			return
		}
		date := Text(card, ".blockTime")
		if len(strings.Split(date, "/")) != 3 {
			return
		}
		records = append(records, lottery.ThreeDRecord{
			Date:   date,
			Day:    lottery.Weekday(date),
			Result: Text(card, ".blockLucky"),
		})
	})
	return records, nil
}
