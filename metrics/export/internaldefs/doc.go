// Package internaldefs holds the shared metric name/help definitions used by
// the Prometheus and OTel exporters. It exists so both exporters render the
// same series without either importing the other.
package internaldefs
