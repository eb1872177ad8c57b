package main

// @title           Nexum ERP API
// @version         1.0
// @description     API do PDV multiempresa: caixa, vendas, estoque, financeiro e assinatura

// @contact.name   Suporte Nexum

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
