package model

// Governorate 配送地址的省份，Value 為表單送出的值
type Governorate struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var governorates = []Governorate{
	{Value: "ariana", Label: "Ariana"},
	{Value: "beja", Label: "Béja"},
	{Value: "ben_arous", Label: "Ben Arous"},
	{Value: "bizerte", Label: "Bizerte"},
	{Value: "gabes", Label: "Gabès"},
	{Value: "gafsa", Label: "Gafsa"},
	{Value: "jendouba", Label: "Jendouba"},
	{Value: "kairouan", Label: "Kairouan"},
	{Value: "kasserine", Label: "Kasserine"},
	{Value: "kebili", Label: "Kébili"},
	{Value: "kef", Label: "Le Kef"},
	{Value: "mahdia", Label: "Mahdia"},
	{Value: "manouba", Label: "Manouba"},
	{Value: "medenine", Label: "Médenine"},
	{Value: "monastir", Label: "Monastir"},
	{Value: "nabeul", Label: "Nabeul"},
	{Value: "sfax", Label: "Sfax"},
	{Value: "sidi_bouzid", Label: "Sidi Bouzid"},
	{Value: "siliana", Label: "Siliana"},
	{Value: "sousse", Label: "Sousse"},
	{Value: "tataouine", Label: "Tataouine"},
	{Value: "tozeur", Label: "Tozeur"},
	{Value: "tunis", Label: "Tunis"},
	{Value: "zaghouan", Label: "Zaghouan"},
}

func Governorates() []Governorate {
	return append([]Governorate{}, governorates...)
}

func IsGovernorate(value string) bool {
	for _, g := range governorates {
		if g.Value == value {
			return true
		}
	}
	return false
}
