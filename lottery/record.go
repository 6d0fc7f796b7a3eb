package lottery

// Fixed slot labels. They are constants of the schema, never read from the page.
const (
	AMDrawTime          = "12:01 AM"
	PMDrawTime          = "16:30 PM"
	AMSupplementaryTime = "9:30 AM"
	PMSupplementaryTime = "2:00 PM"
)

type Draw struct {
	Time   string `json:"time"`
	Result string `json:"result"`
	Set    string `json:"set"`
	Value  string `json:"value"`
}

// Supplementary is the Modern/Internet pair published next to a draw.
type Supplementary struct {
	Time          string `json:"time"`
	ModernValue   string `json:"modernValue"`
	InternetValue string `json:"internetValue"`
}

type Additional struct {
	AM Supplementary `json:"am"`
	PM Supplementary `json:"pm"`
}

// DailyRecord is the snapshot of the main page.
type DailyRecord struct {
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	LiveNumber  string     `json:"liveNumber"`
	UpdatedTime string     `json:"updatedTime"`
	AM          Draw       `json:"am"`
	PM          Draw       `json:"pm"`
	Additional  Additional `json:"additional"`
}

type WeeklyRecord struct {
	Date       string     `json:"date"`
	Day        string     `json:"day"`
	AM         Draw       `json:"am"`
	PM         Draw       `json:"pm"`
	Additional Additional `json:"additional"`
}

type ThreeDRecord struct {
	Date   string `json:"date"`
	Day    string `json:"day"`
	Result string `json:"result"`
}

func NewAMDraw() Draw { return Draw{Time: AMDrawTime} }

func NewPMDraw() Draw { return Draw{Time: PMDrawTime} }

func NewAdditional() Additional {
	return Additional{
		AM: Supplementary{Time: AMSupplementaryTime},
		PM: Supplementary{Time: PMSupplementaryTime},
	}
}

// NewDailyRecord returns a record with the fixed labels set and every value empty.
func NewDailyRecord() DailyRecord {
	return DailyRecord{
		AM:         NewAMDraw(),
		PM:         NewPMDraw(),
		Additional: NewAdditional(),
	}
}

func NewWeeklyRecord(date, day string) WeeklyRecord {
	return WeeklyRecord{
		Date:       date,
		Day:        day,
		AM:         NewAMDraw(),
		PM:         NewPMDraw(),
		Additional: NewAdditional(),
	}
}

// SetSupplementary fills the AM or PM slot whose label occurs in header.
// It reports whether a slot matched.
func (a *Additional) SetSupplementary(header, modern, internet string) bool {
	switch {
	case containsLabel(header, AMSupplementaryTime):
		a.AM.ModernValue, a.AM.InternetValue = modern, internet
	case containsLabel(header, PMSupplementaryTime):
		a.PM.ModernValue, a.PM.InternetValue = modern, internet
	default:
		return false
	}
	return true
}
