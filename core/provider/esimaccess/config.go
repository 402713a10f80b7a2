package esimaccess

// Config holds configuration for the eSIM Access open API.
type Config struct {
	// BaseURL is the API root, without the /api/v1 suffix.
	BaseURL string `mapstructure:"base_url" default:"https://api.esimaccess.com"`
	// AccessCode identifies the account (RT-AccessCode header).
	AccessCode string `mapstructure:"access_code" default:""`
	// SecretKey signs every request.
	SecretKey string `mapstructure:"secret_key" default:""`
	// LocationCode is the catalog filter. "!RG" selects every non-region location.
	LocationCode string `mapstructure:"location_code" default:"!RG"`
	// TimeoutSeconds bounds one catalog request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
