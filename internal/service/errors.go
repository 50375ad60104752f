package service

import (
	"errors"

	"pudahuelpos/internal/repository"
)

// Business-rule failures. Every service operation fails with exactly one of
// these (or a wrapped infrastructure error). Handlers map them to HTTP
// statuses, the UI owns the user-facing wording. None is fatal: callers
// recover by correcting the request and resubmitting.
var (
	// Ventas
	ErrCarritoVacio         = errors.New("el carrito esta vacio")
	ErrSinTurnoActivo       = errors.New("no hay un turno abierto")
	ErrEfectivoInsuficiente = errors.New("el efectivo recibido es inferior al total")
	ErrClienteRequerido     = errors.New("debes seleccionar un cliente para fiar")
	ErrNadaParaDevolver     = errors.New("no hay cantidades para devolver")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")

	// Fiados
	ErrClienteNoAutorizado = errors.New("el cliente no esta autorizado para fiado")
	ErrLimiteExcedido      = errors.New("limite de credito excedido")
	ErrMontoInvalido       = errors.New("el monto debe ser mayor a cero")
	ErrMontoExcedeSaldo    = errors.New("el monto excede la deuda del cliente")
	ErrClienteNoEncontrado = errors.New("cliente no encontrado")

	// Turnos
	ErrTurnoYaAbierto    = repository.ErrTurnoYaAbierto
	ErrAperturaInvalida  = errors.New("datos de apertura invalidos")
	ErrCierreInvalido    = errors.New("datos de cierre invalidos")
	ErrTurnoNoEncontrado = errors.New("turno no encontrado")

	// Stock. Aliased so errors.Is matches across the repository boundary.
	ErrStockInsuficiente    = repository.ErrStockInsuficiente
	ErrProductoNoEncontrado = errors.New("producto no encontrado")

	// Gastos
	ErrProveedorRequerido = errors.New("ingresa el nombre del proveedor")
)
