package model

// CredentialSet maps each provider to its opaque secret. Providers with no
// stored value are absent from a fetched set.
type CredentialSet map[Provider]string

// Complete returns a copy of the set holding an entry for every provider,
// using the empty string where no value is present. Saves always send the
// complete set.
func (c CredentialSet) Complete() CredentialSet {
	out := make(CredentialSet, len(Providers()))
	for _, p := range Providers() {
		out[p] = c[p]
	}
	return out
}

// ConnectivityCheck is the payload of a single credential round-trip test.
type ConnectivityCheck struct {
	Provider Provider
	Key      string
}
