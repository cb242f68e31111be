package ssllabs

import "encoding/json"

// AnalyzeResponse is the provider's scan state for one host.
type AnalyzeResponse struct {
	Host          string     `json:"host"`
	Status        string     `json:"status"`
	StatusMessage string     `json:"statusMessage"`
	Endpoints     []Endpoint `json:"endpoints"`
}

// Endpoint is one distinct resolved IP assessed by the scan.
type Endpoint struct {
	IPAddress     string          `json:"ipAddress"`
	Grade         string          `json:"grade"`
	StatusMessage string          `json:"statusMessage"`
	Details       EndpointDetails `json:"details"`
}

// EndpointDetails carries the typed substructures the normalizer reads plus
// the raw detail map, kept for the vulnerability-key scan and the persisted
// payload.
type EndpointDetails struct {
	Cert           Cert       `json:"cert"`
	Key            Key        `json:"key"`
	Protocols      []Protocol `json:"protocols"`
	Suites         Suites     `json:"suites"`
	HSTSPolicy     HSTSPolicy `json:"hstsPolicy"`
	ForwardSecrecy int        `json:"forwardSecrecy"`

	Raw map[string]any `json:"-"`
}

func (d *EndpointDetails) UnmarshalJSON(data []byte) error {
	type alias EndpointDetails
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = EndpointDetails(a)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Raw = raw
	return nil
}

// Cert is the provider's view of the endpoint certificate. Validity bounds
// are unix epoch milliseconds.
type Cert struct {
	Subject       string   `json:"subject"`
	IssuerSubject string   `json:"issuerSubject"`
	SerialNumber  string   `json:"serialNumber"`
	NotBefore     int64    `json:"notBefore"`
	NotAfter      int64    `json:"notAfter"`
	AltNames      []string `json:"altNames"`
	SigAlg        string   `json:"sigAlg"`
	OCSPURIs      []string `json:"ocspURIs"`
	CRLURIs       []string `json:"crlURIs"`
}

// Key is the endpoint's public key as assessed by the provider.
type Key struct {
	Alg  string `json:"alg"`
	Size int    `json:"size"`
}

// Protocol is one supported protocol version.
type Protocol struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Suites lists the negotiated cipher suites.
type Suites struct {
	List []Suite `json:"list"`
}

// Suite is one cipher suite by name.
type Suite struct {
	Name string `json:"name"`
}

// HSTSPolicy is the provider's HSTS assessment. Status code 1 means the
// policy is present.
type HSTSPolicy struct {
	Status  int   `json:"status"`
	MaxAge  int64 `json:"maxAge"`
	Preload bool  `json:"preload"`
}

// Provider-documented security-feature codes.
const (
	hstsPresentCode    = 1
	forwardSecrecyCode = 2
)
