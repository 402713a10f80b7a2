package esimaccess

// Query is the body of a package list request.
type Query struct {
	LocationCode string `json:"locationCode"`
	Type         string `json:"type,omitempty"`
	PackageCode  string `json:"packageCode,omitempty"`
	Slug         string `json:"slug,omitempty"`
}

// Package is one catalog entry. Prices are fixed-point integers with four decimals.
type Package struct {
	PackageCode         string            `json:"packageCode" validate:"required"`
	Slug                string            `json:"slug"`
	Name                string            `json:"name"`
	Price               int64             `json:"price" validate:"gte=0"`
	RetailPrice         int64             `json:"retailPrice" validate:"gte=0"`
	CurrencyCode        string            `json:"currencyCode"`
	Volume              int64             `json:"volume" validate:"gte=0"`
	SmsStatus           int               `json:"smsStatus"`
	DataType            int               `json:"dataType"`
	Duration            int               `json:"duration" validate:"gte=0"`
	DurationUnit        string            `json:"durationUnit"`
	Description         string            `json:"description"`
	FupPolicy           string            `json:"fupPolicy"`
	Location            string            `json:"location"`
	LocationCode        string            `json:"locationCode"`
	LocationNetworkList []LocationNetwork `json:"locationNetworkList" validate:"dive"`
}

// LocationNetwork lists the operators serving one location of a package.
type LocationNetwork struct {
	LocationName string     `json:"locationName"`
	LocationCode string     `json:"locationCode"`
	OperatorList []Operator `json:"operatorList" validate:"dive"`
}

// Operator is a carrier serving a location.
type Operator struct {
	OperatorName string `json:"operatorName" validate:"required"`
	NetworkType  string `json:"networkType"`
}

// envelope is the response wrapper shared by every open API call.
type envelope struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode"`
	ErrorMsg  string `json:"errorMsg"`
	Obj       *struct {
		PackageList []Package `json:"packageList"`
	} `json:"obj"`
}

const (
	// DataTypeDailyUnlimited marks packages with unlimited daily data.
	DataTypeDailyUnlimited = 4
	// SmsIncluded is the smsStatus of packages that include SMS.
	SmsIncluded = 1
)
