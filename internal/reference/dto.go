package reference

type CountryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

type LookupsResponse struct {
	Categories     []*Category       `json:"categories"`
	PaymentMethods []*PaymentMethod  `json:"payment_methods"`
	Currencies     []*Currency       `json:"currencies"`
	Countries      []CountryResponse `json:"countries"`
}

func (l *Lookups) ToResponse() LookupsResponse {
	countries := make([]CountryResponse, len(l.Countries))
	for i, c := range l.Countries {
		countries[i] = CountryResponse{ID: c.ID, Name: c.Name, Code: c.Code, Flag: c.Flag()}
	}
	return LookupsResponse{
		Categories:     l.Categories,
		PaymentMethods: l.PaymentMethods,
		Currencies:     l.Currencies,
		Countries:      countries,
	}
}
