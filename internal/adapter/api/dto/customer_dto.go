package dto

import "github.com/hugohenrick/nexum-erp/internal/service"

// CustomerRequest representa a requisição de cliente
type CustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address"`
}

// ToInput converte a requisição para a entrada do serviço
func (r CustomerRequest) ToInput() service.CustomerInput {
	return service.CustomerInput{
		Name:     r.Name,
		Document: r.Document,
		Phone:    r.Phone,
		Email:    r.Email,
		Address:  r.Address,
	}
}
