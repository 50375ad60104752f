package service

import (
	"context"
	"testing"

	"pudahuelpos/internal/dto"
	"pudahuelpos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGastoSvc() (GastoService, *fakeTurnoRepo, *fakeGastoRepo) {
	turnoRepo := newFakeTurnoRepo()
	gastoRepo := &fakeGastoRepo{}
	return NewGastoService(gastoRepo, turnoRepo), turnoRepo, gastoRepo
}

func strPtr(s string) *string { return &s }

func TestRegistrarGasto(t *testing.T) {
	svc, turnoRepo, _ := buildGastoSvc()
	turno := seedTurnoAbierto(turnoRepo, 10000)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo:  model.GastoFlete,
		Monto: decimal.NewFromInt(4500),
	})
	require.NoError(t, err)
	assert.Equal(t, turno.ID.String(), resp.TurnoID)
	assert.Equal(t, model.GastoFlete, resp.Tipo)
}

func TestRegistrarGasto_SinTurnoAbierto(t *testing.T) {
	svc, _, _ := buildGastoSvc()
	_, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoOtro, Monto: decimal.NewFromInt(1000),
	})
	assert.ErrorIs(t, err, ErrSinTurnoActivo)
}

func TestRegistrarGasto_MontoInvalido(t *testing.T) {
	svc, turnoRepo, _ := buildGastoSvc()
	seedTurnoAbierto(turnoRepo, 0)

	_, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoOtro, Monto: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrMontoInvalido)

	_, err = svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoOtro, Monto: decimal.NewFromInt(-500),
	})
	assert.ErrorIs(t, err, ErrMontoInvalido)
}

// tipo=proveedor requires the supplier's name; every other tipo takes it
// as optional extra detail.
func TestRegistrarGasto_ProveedorRequiereNombre(t *testing.T) {
	svc, turnoRepo, _ := buildGastoSvc()
	seedTurnoAbierto(turnoRepo, 0)

	_, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoProveedor, Monto: decimal.NewFromInt(20000),
	})
	assert.ErrorIs(t, err, ErrProveedorRequerido)

	_, err = svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoProveedor, Monto: decimal.NewFromInt(20000), NombreProveedor: strPtr(""),
	})
	assert.ErrorIs(t, err, ErrProveedorRequerido)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoProveedor, Monto: decimal.NewFromInt(20000), NombreProveedor: strPtr("Distribuidora Sur"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Sur", *resp.NombreProveedor)
}

func TestListarGastosTurnoActual(t *testing.T) {
	svc, turnoRepo, _ := buildGastoSvc()
	seedTurnoAbierto(turnoRepo, 0)

	_, err := svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoSueldo, Monto: decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	_, err = svc.Registrar(context.Background(), dto.RegistrarGastoRequest{
		Tipo: model.GastoOtro, Monto: decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	resp, err := svc.ListarTurnoActual(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.True(t, decimal.NewFromInt(17500).Equal(resp.Total))
}

func TestListarGastos_SinTurnoAbierto(t *testing.T) {
	svc, _, _ := buildGastoSvc()
	_, err := svc.ListarTurnoActual(context.Background())
	assert.ErrorIs(t, err, ErrSinTurnoActivo)
}
