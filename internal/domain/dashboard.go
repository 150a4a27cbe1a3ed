package domain

type BuyerDashboard struct {
	User      User       `json:"user"`
	Saved     []Property `json:"saved"`
	Inquiries []Inquiry  `json:"inquiries"`
}

type SellerDashboard struct {
	AgentID        string     `json:"agentId"`
	Listings       []Property `json:"listings"`
	ActiveListings int        `json:"activeListings"`
	TotalViews     int        `json:"totalViews"`
	Inquiries      []Inquiry  `json:"inquiries"`
}

type AdminDashboard struct {
	TotalProperties int                  `json:"totalProperties"`
	ByType          map[ListingKind]int  `json:"byType"`
	ByPropertyType  map[PropertyType]int `json:"byPropertyType"`
	Featured        int                  `json:"featured"`
	TotalViews      int                  `json:"totalViews"`
	TotalUsers      int                  `json:"totalUsers"`
	Submissions     []ListingSubmission  `json:"submissions"`
	PendingReview   int                  `json:"pendingReview"`
	TopViewed       []Property           `json:"topViewed"`
}
