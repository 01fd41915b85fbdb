package entity

// AuthorRow fila de la hoja de autores (columnas A..N).
type AuthorRow struct {
	ContractID string
	Nick       string
	Name       string
	Telegram   string
	TelegramID string
	VK         string
	Rack       string
	Level      string
	Side       string
	Comments   string
	LastReport string
	Rent       string
	Withdrawn  string
	Total      string
}

// LostSaleAdjustment fila de correcciones de caja. Los campos se guardan tal cual
// vienen de la hoja; su interpretación ocurre al conciliar.
type LostSaleAdjustment struct {
	GroupID        string
	Name           string
	Amount         string
	CorrectionType string
	Date           string
}
