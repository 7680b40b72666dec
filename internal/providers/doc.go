// Package providers contains the adapters that read each external data
// vendor's native format and normalize it into provider records for the
// match engine. Each adapter declares its own identifier strategies in the
// order the vendor's data quality justifies: Refinitiv and MSCI publish
// CUSIPs and ISINs, FMP only ISINs and exchange-suffixed symbols.
package providers
