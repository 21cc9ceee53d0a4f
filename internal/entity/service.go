package entity

// ServiceCatalog é a lista fixa de serviços oferecidos no formulário público.
var ServiceCatalog = []string{
	"Transferência de propriedade",
	"Emissão de CRLV / CRV",
	"Comunicação de venda",
	"Regularização de pendências",
	"Débitos e multas",
	"Bloqueios e restrições",
	"Segunda via de documentos",
	"Consultas veiculares",
	"Casos complexos",
	"Serviços para lojistas",
}

func IsCatalogService(name string) bool {
	for _, s := range ServiceCatalog {
		if s == name {
			return true
		}
	}
	return false
}
