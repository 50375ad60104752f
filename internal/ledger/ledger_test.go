package ledger

import (
	"testing"

	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venta(turnoID *uuid.UUID, tipo, metodo string, total int64) model.Venta {
	return model.Venta{
		Tipo:       tipo,
		MetodoPago: metodo,
		Total:      decimal.NewFromInt(total),
		TurnoID:    turnoID,
	}
}

func TestResumenTurno_Buckets(t *testing.T) {
	turnoID := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 12000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 3000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCard, 8000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoTransfer, 5000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoFiado, 7000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoStaff, 1000),
	}

	r, err := ResumenTurno(ventas, &turnoID)
	require.NoError(t, err)
	assert.Equal(t, 6, r.Tickets)
	assert.True(t, decimal.NewFromInt(15000).Equal(r.PorMetodo.Cash))
	assert.True(t, decimal.NewFromInt(8000).Equal(r.PorMetodo.Card))
	assert.True(t, decimal.NewFromInt(5000).Equal(r.PorMetodo.Transfer))
	assert.True(t, decimal.NewFromInt(7000).Equal(r.PorMetodo.Fiado))
	assert.True(t, decimal.NewFromInt(1000).Equal(r.PorMetodo.Staff))
	assert.True(t, decimal.NewFromInt(36000).Equal(r.Total))
	// Total is derived from the buckets, never computed separately.
	assert.True(t, r.PorMetodo.Suma().Equal(r.Total))
}

func TestResumenTurno_DevolucionRestaSinContarTicket(t *testing.T) {
	turnoID := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 10000),
		venta(&turnoID, model.VentaTipoDevolucion, model.MetodoCash, 2500),
	}

	r, err := ResumenTurno(ventas, &turnoID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Tickets)
	assert.True(t, decimal.NewFromInt(7500).Equal(r.PorMetodo.Cash))
	assert.True(t, decimal.NewFromInt(7500).Equal(r.Total))
}

func TestResumenTurno_FiltraOtrosTurnos(t *testing.T) {
	turnoID := uuid.New()
	otro := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 5000),
		venta(&otro, model.VentaTipoVenta, model.MetodoCash, 99999),
		venta(nil, model.VentaTipoVenta, model.MetodoCash, 12345),
	}

	r, err := ResumenTurno(ventas, &turnoID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Tickets)
	assert.True(t, decimal.NewFromInt(5000).Equal(r.Total))
}

func TestResumenTurno_MetodoInvalidoRechazaTodo(t *testing.T) {
	turnoID := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 5000),
		venta(&turnoID, model.VentaTipoVenta, "cheque", 1000),
	}

	_, err := ResumenTurno(ventas, &turnoID)
	assert.ErrorIs(t, err, ErrMetodoPagoInvalido)
}

func TestResumenTurno_SinTurno(t *testing.T) {
	r, err := ResumenTurno([]model.Venta{venta(nil, model.VentaTipoVenta, model.MetodoCash, 100)}, nil)
	require.NoError(t, err)
	assert.Zero(t, r.Tickets)
	assert.True(t, r.Total.IsZero())
}

func TestSumarGastos(t *testing.T) {
	turnoID := uuid.New()
	gastos := []model.GastoTurno{
		{TurnoID: turnoID, Monto: decimal.NewFromInt(3000)},
		{TurnoID: turnoID, Monto: decimal.NewFromInt(1500)},
		{TurnoID: uuid.New(), Monto: decimal.NewFromInt(80000)},
	}
	total := SumarGastos(gastos, turnoID)
	assert.True(t, decimal.NewFromInt(4500).Equal(total))
}

// Expected drawer cash = opening cash + cash sales. Card and transfer never
// enter the drawer, and gastos are reported apart.
func TestEfectivoEsperado_SoloEfectivo(t *testing.T) {
	turnoID := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 25000),
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCard, 15000),
	}
	r, err := ResumenTurno(ventas, &turnoID)
	require.NoError(t, err)

	esperado := EfectivoEsperado(decimal.NewFromInt(10000), r)
	assert.True(t, decimal.NewFromInt(35000).Equal(esperado))
}

func TestEfectivoEsperado_DevolucionEnEfectivo(t *testing.T) {
	turnoID := uuid.New()
	ventas := []model.Venta{
		venta(&turnoID, model.VentaTipoVenta, model.MetodoCash, 20000),
		venta(&turnoID, model.VentaTipoDevolucion, model.MetodoCash, 4000),
	}
	r, err := ResumenTurno(ventas, &turnoID)
	require.NoError(t, err)

	esperado := EfectivoEsperado(decimal.NewFromInt(5000), r)
	assert.True(t, decimal.NewFromInt(21000).Equal(esperado))
}
