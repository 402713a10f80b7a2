package catalog

import (
	"fmt"
	"math/big"
)

const (
	bytesPerMB = 1 << 20
	bytesPerGB = 1 << 30
)

// FormatVolume renders a byte count as a data label. Volumes of at least 1 GiB are
// expressed in GB, smaller ones in MB, rounded half-up to two decimals with trailing
// zeros trimmed: 2147483648 gives "2 GB", 1572864 gives "1.5 MB".
func FormatVolume(bytes int64) (string, error) {
	if bytes < 0 {
		return "", fmt.Errorf("%w: negative volume %d", ErrInvalidInput, bytes)
	}

	unit, divisor := "MB", int64(bytesPerMB)
	if bytes >= bytesPerGB {
		unit, divisor = "GB", bytesPerGB
	}

	// hundredths = round_half_up(bytes * 100 / divisor), computed exactly
	num := new(big.Int).Mul(big.NewInt(bytes), big.NewInt(100))
	div := big.NewInt(divisor)
	q, r := new(big.Int).QuoRem(num, div, new(big.Int))
	if new(big.Int).Mul(r, big.NewInt(2)).Cmp(div) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	hundredths := q.Int64()
	whole, frac := hundredths/100, hundredths%100

	switch {
	case frac == 0:
		return fmt.Sprintf("%d %s", whole, unit), nil
	case frac%10 == 0:
		return fmt.Sprintf("%d.%d %s", whole, frac/10, unit), nil
	default:
		return fmt.Sprintf("%d.%02d %s", whole, frac, unit), nil
	}
}
