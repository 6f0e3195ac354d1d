package warehouse

import (
	"strconv"
	"strings"
)

// Query renders the agencies query for c. Identifiers are not escaped;
// call Validate first.
func (c Config) Query() string {
	carriers := make([]string, len(c.CarrierIDs))
	for i, id := range c.CarrierIDs {
		carriers[i] = strconv.FormatInt(id, 10)
	}

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString("  CAST(SHP_AGENCY_ID AS STRING) AS ID,\n")
	b.WriteString("  SHP_AGEN_BUSINESS_NAME AS Nome,\n")
	b.WriteString("  SHP_AGEN_STATUS AS SBO,\n")
	b.WriteString("  SHP_SITE_ID AS Pais_Code\n")
	b.WriteString("FROM `" + c.Table + "`\n")
	b.WriteString("WHERE\n")
	b.WriteString("  SHP_CARRIER_ID IN (" + strings.Join(carriers, ", ") + ")\n")
	b.WriteString("  AND REGEXP_CONTAINS(TRIM(SHP_AGENCY_ID), r'^\\d+$')\n")
	if len(c.ExcludedPrefixes) > 0 {
		prefixes := make([]string, len(c.ExcludedPrefixes))
		for i, p := range c.ExcludedPrefixes {
			prefixes[i] = quote(p)
		}
		b.WriteString("  AND LEFT(SHP_AGENCY_ID, 1) NOT IN (" + strings.Join(prefixes, ", ") + ")\n")
	}
	b.WriteString("  AND SAFE_CAST(SHP_AGENCY_ID AS INT64) IS NOT NULL\n")
	b.WriteString("  AND SHP_AGEN_CS_INSTALLATION_AVAILABILITY_FLAG IS FALSE\n")
	b.WriteString("  AND SHP_AGEN_STATUS IN ('active', 'inactive')\n")
	return b.String()
}

// quote renders s as a single-quoted string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
