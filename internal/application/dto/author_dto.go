package dto

// CreateAuthorRequest alta de un autor con contrato (password en texto, se hashea en use case).
type CreateAuthorRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=100"`
	Password   string `json:"password" validate:"required,min=6"`
	ContractID string `json:"contract_id" validate:"required,max=50"`
}

// FreeContractsResponse contratos del libro sin usuario asignado.
type FreeContractsResponse struct {
	Contracts []string `json:"contracts"`
}

// NickResponse nick de un contrato según la hoja de autores.
type NickResponse struct {
	ContractID string `json:"contract_id"`
	Nick       string `json:"nick"`
}
