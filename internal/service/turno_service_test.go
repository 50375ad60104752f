package service

import (
	"context"
	"testing"
	"time"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTurnoSvc() (TurnoService, *fakeTurnoRepo, *fakeVentaRepo, *fakeGastoRepo) {
	turnoRepo := newFakeTurnoRepo()
	ventaRepo := newFakeVentaRepo()
	gastoRepo := &fakeGastoRepo{}
	svc := NewTurnoService(turnoRepo, ventaRepo, gastoRepo, nil)
	return svc, turnoRepo, ventaRepo, gastoRepo
}

func seedVenta(repo *fakeVentaRepo, turnoID uuid.UUID, tipo, metodo string, total int64) {
	n, _ := repo.NextTicketNumber(context.Background(), nil)
	_ = repo.Create(context.Background(), nil, &model.Venta{
		NumeroTicket: n,
		Tipo:         tipo,
		Total:        decimal.NewFromInt(total),
		MetodoPago:   metodo,
		TurnoID:      &turnoID,
		Vendedor:     "Carla",
		CreatedAt:    time.Now(),
	})
}

func TestAbrirTurno(t *testing.T) {
	svc, _, _, _ := buildTurnoSvc()

	resp, err := svc.Abrir(context.Background(), dto.AbrirTurnoRequest{
		Vendedor:        "Carla",
		Tipo:            "dia",
		EfectivoInicial: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	assert.Equal(t, "abierto", resp.Estado)
	assert.Equal(t, "Carla", resp.Vendedor)
	assert.True(t, decimal.NewFromInt(10000).Equal(resp.EfectivoInicial))
}

func TestAbrirTurno_YaAbierto(t *testing.T) {
	svc, turnoRepo, _, _ := buildTurnoSvc()
	seedTurnoAbierto(turnoRepo, 5000)

	_, err := svc.Abrir(context.Background(), dto.AbrirTurnoRequest{
		Vendedor:        "Pedro",
		Tipo:            "noche",
		EfectivoInicial: decimal.NewFromInt(8000),
	})
	assert.ErrorIs(t, err, ErrTurnoYaAbierto)
}

func TestAbrirTurno_DatosInvalidos(t *testing.T) {
	svc, _, _, _ := buildTurnoSvc()

	_, err := svc.Abrir(context.Background(), dto.AbrirTurnoRequest{
		Vendedor: "Carla", Tipo: "madrugada", EfectivoInicial: decimal.NewFromInt(1000),
	})
	assert.ErrorIs(t, err, ErrAperturaInvalida)

	_, err = svc.Abrir(context.Background(), dto.AbrirTurnoRequest{
		Vendedor: "Carla", Tipo: "dia", EfectivoInicial: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrAperturaInvalida)
}

// Reconciliation: inicial 10000, ventas cash 25000 + card 15000, contado
// 34500. Esperado = 10000 + 25000 = 35000 (card never touches the drawer),
// diferencia = -500.
func TestCerrarTurno_Arqueo(t *testing.T) {
	svc, turnoRepo, ventaRepo, _ := buildTurnoSvc()
	turno := seedTurnoAbierto(turnoRepo, 10000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoCash, 25000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoCard, 15000)

	resp, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		EfectivoContado: decimal.NewFromInt(34500),
	})
	require.NoError(t, err)
	assert.Equal(t, "cerrado", resp.Estado)
	assert.True(t, decimal.NewFromInt(35000).Equal(*resp.EfectivoEsperado), "esperado %s", resp.EfectivoEsperado)
	assert.True(t, decimal.NewFromInt(-500).Equal(*resp.Diferencia), "diferencia %s", resp.Diferencia)
	assert.True(t, decimal.NewFromInt(40000).Equal(*resp.TotalVentas))
	assert.Equal(t, 2, *resp.Tickets)
	assert.True(t, decimal.NewFromInt(25000).Equal(resp.DesglosePagos.Cash))
	assert.True(t, decimal.NewFromInt(15000).Equal(resp.DesglosePagos.Card))
}

// Gastos come out of the drawer physically but are reported separately; the
// expected cash figure does not subtract them.
func TestCerrarTurno_GastosNoRestanDelEsperado(t *testing.T) {
	svc, turnoRepo, ventaRepo, gastoRepo := buildTurnoSvc()
	turno := seedTurnoAbierto(turnoRepo, 10000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoCash, 20000)
	_ = gastoRepo.Create(context.Background(), &model.GastoTurno{
		TurnoID: turno.ID, Tipo: model.GastoFlete, Monto: decimal.NewFromInt(3000),
	})

	resp, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		EfectivoContado: decimal.NewFromInt(27000),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30000).Equal(*resp.EfectivoEsperado))
	assert.True(t, decimal.NewFromInt(-3000).Equal(*resp.Diferencia))
}

func TestCerrarTurno_DevolucionRestaDelDesglose(t *testing.T) {
	svc, turnoRepo, ventaRepo, _ := buildTurnoSvc()
	turno := seedTurnoAbierto(turnoRepo, 0)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoCash, 12000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoDevolucion, model.MetodoCash, 2000)

	resp, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		EfectivoContado: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	// Returns subtract from the bucket but do not count a ticket.
	assert.True(t, decimal.NewFromInt(10000).Equal(*resp.TotalVentas))
	assert.Equal(t, 1, *resp.Tickets)
	assert.True(t, resp.Diferencia.IsZero())
}

func TestCerrarTurno_SinTurnoAbierto(t *testing.T) {
	svc, _, _, _ := buildTurnoSvc()
	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		EfectivoContado: decimal.NewFromInt(1000),
	})
	assert.ErrorIs(t, err, ErrSinTurnoActivo)
}

func TestCerrarTurno_ContadoNegativo(t *testing.T) {
	svc, turnoRepo, _, _ := buildTurnoSvc()
	seedTurnoAbierto(turnoRepo, 1000)
	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{
		EfectivoContado: decimal.NewFromInt(-100),
	})
	assert.ErrorIs(t, err, ErrCierreInvalido)
}

func TestCerrarTurno_DobleCierre(t *testing.T) {
	svc, turnoRepo, _, _ := buildTurnoSvc()
	seedTurnoAbierto(turnoRepo, 1000)

	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{EfectivoContado: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{EfectivoContado: decimal.NewFromInt(1000)})
	assert.ErrorIs(t, err, ErrSinTurnoActivo)
}

func TestTurnoActual(t *testing.T) {
	svc, turnoRepo, _, _ := buildTurnoSvc()

	resp, err := svc.Actual(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp)

	seedTurnoAbierto(turnoRepo, 2000)
	resp, err = svc.Actual(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "abierto", resp.Estado)
}

func TestResumenTurno_SinTurno_TodoEnCero(t *testing.T) {
	svc, _, _, _ := buildTurnoSvc()
	resp, err := svc.Resumen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.TurnoID)
	assert.True(t, resp.Total.IsZero())
	assert.Zero(t, resp.Tickets)
	assert.True(t, resp.TotalGastos.IsZero())
}

func TestResumenTurno_EnVivo(t *testing.T) {
	svc, turnoRepo, ventaRepo, gastoRepo := buildTurnoSvc()
	turno := seedTurnoAbierto(turnoRepo, 5000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoCash, 7000)
	seedVenta(ventaRepo, turno.ID, model.VentaTipoVenta, model.MetodoTransfer, 4000)
	_ = gastoRepo.Create(context.Background(), &model.GastoTurno{
		TurnoID: turno.ID, Tipo: model.GastoOtro, Monto: decimal.NewFromInt(1500),
	})

	resp, err := svc.Resumen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, turno.ID.String(), resp.TurnoID)
	assert.True(t, decimal.NewFromInt(11000).Equal(resp.Total))
	assert.Equal(t, 2, resp.Tickets)
	assert.True(t, decimal.NewFromInt(7000).Equal(resp.PorMetodo.Cash))
	assert.True(t, decimal.NewFromInt(4000).Equal(resp.PorMetodo.Transfer))
	assert.True(t, decimal.NewFromInt(1500).Equal(resp.TotalGastos))
}

func TestHistorialTurnos_SoloCerrados(t *testing.T) {
	svc, turnoRepo, _, _ := buildTurnoSvc()
	seedTurnoAbierto(turnoRepo, 1000)
	_, err := svc.Cerrar(context.Background(), dto.CerrarTurnoRequest{EfectivoContado: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	seedTurnoAbierto(turnoRepo, 2000)

	resp, err := svc.Historial(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "cerrado", resp.Data[0].Estado)
}
