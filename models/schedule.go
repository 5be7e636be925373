package models

// RecurringTemplate is one weekly availability rule. A gardener may hold
// several non-overlapping ranges per day of week. Templates are replaced
// wholesale on every save.
type RecurringTemplate struct {
	GardenerID string `bson:"gardenerId" json:"gardenerId"`
	DayOfWeek  int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartHour  int    `bson:"startHour" json:"startHour"`
	EndHour    int    `bson:"endHour" json:"endHour"` // exclusive
}

// RecurringSettings controls how far ahead the projector materializes
// concrete availability and the minimum lead time before a slot is bookable.
type RecurringSettings struct {
	GardenerID        string `bson:"gardenerId" json:"gardenerId"`
	WeeksToMaintain   int    `bson:"weeksToMaintain" json:"weeksToMaintain"`
	MinNoticeHours    int    `bson:"minNoticeHours" json:"minNoticeHours"`
	LastGeneratedDate string `bson:"lastGeneratedDate" json:"lastGeneratedDate,omitempty"` // "2006-01-02"
}

// HourRange is a coalesced (start, end) hour span, end exclusive.
type HourRange struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}
