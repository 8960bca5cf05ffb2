package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Stage string

const (
	StagePreparation       Stage = "PREPARACION"
	StagePending           Stage = "PENDIENTE"
	StagePrintWM1          Stage = "IMPRESION_WM1"
	StagePrintGIAVE        Stage = "IMPRESION_GIAVE"
	StagePrintWM3          Stage = "IMPRESION_WM3"
	StagePrintAnon         Stage = "IMPRESION_ANON"
	StageLaminationSL2     Stage = "POST_LAMINACION_SL2"
	StageLaminationNexus   Stage = "POST_LAMINACION_NEXUS"
	StageRewindS2DT        Stage = "POST_REBOBINADO_S2DT"
	StageRewindProslit     Stage = "POST_REBOBINADO_PROSLIT"
	StagePerforationMIC    Stage = "POST_PERFORACION_MIC"
	StagePerforationMAC    Stage = "POST_PERFORACION_MAC"
	StageRewindTemac       Stage = "POST_REBOBINADO_TEMAC"
	StageCompleted         Stage = "COMPLETADO"
	StageArchived          Stage = "ARCHIVADO"
	StageReadyToProduction Stage = "LISTO_PARA_PRODUCCION" // sub-stage of PREPARACION, selectable as a stage
)

type ClicheState string

const (
	ClicheNew              ClicheState = "NUEVO"
	ClicheRepeatWithChange ClicheState = "REPETICIÓN CON CAMBIO"
	ClichePendingClient    ClicheState = "PENDIENTE CLIENTE"
)

// Normalized folds case, accents and the legacy "Repetición/Cambio" spelling
// so that stored values can be compared against the constants above.
func (s ClicheState) Normalized() string {
	f := Fold(string(s))
	f = strings.ReplaceAll(f, "/", " CON ")
	return strings.Join(strings.Fields(f), " ")
}

// IsNewOrChanged reports whether the cliché still has to be made (new plate or
// a repeat with changes).
func (s ClicheState) IsNewOrChanged() bool {
	n := s.Normalized()
	return n == Fold(string(ClicheNew)) || n == Fold(string(ClicheRepeatWithChange))
}

type DateField string

const (
	DateCreated         DateField = "fechaCreacion"
	DateDelivery        DateField = "fechaEntrega"
	DateRevisedDelivery DateField = "nuevaFechaEntrega"
	DateFinished        DateField = "fechaFinalizacion"
)

func (f DateField) Valid() bool {
	switch f {
	case DateCreated, DateDelivery, DateRevisedDelivery, DateFinished:
		return true
	}
	return false
}

// Order is a pedido as stored in the data column of the pedidos table.
// Dates are kept as raw strings: the stored documents are not uniform.
type Order struct {
	ID                  string      `json:"id"`
	Number              string      `json:"numeroPedidoCliente"`
	Client              string      `json:"cliente"`
	ClientID            *string     `json:"clienteId,omitempty"`
	Seller              string      `json:"vendedorNombre,omitempty"`
	Machine             string      `json:"maquinaImpresion,omitempty"`
	ClicheState         ClicheState `json:"estadoCliché,omitempty"`
	HoursConfirmed      bool        `json:"horasConfirmadas,omitempty"`
	ClicheAvailable     bool        `json:"clicheDisponible,omitempty"`
	ClichePurchaseDate  *string     `json:"compraCliche,omitempty"`
	PlannedTime         string      `json:"tiempoProduccionPlanificado,omitempty"`
	DecimalHours        *float64    `json:"tiempoProduccionDecimal,omitempty"`
	Stage               Stage       `json:"etapaActual"`
	SubStage            Stage       `json:"subEtapaActual,omitempty"`
	CreatedAt           string      `json:"fechaCreacion,omitempty"`
	DeliveryDate        string      `json:"fechaEntrega,omitempty"`
	RevisedDeliveryDate string      `json:"nuevaFechaEntrega,omitempty"`
	FinishedAt          string      `json:"fechaFinalizacion,omitempty"`
	Meters              float64     `json:"metros,omitempty"`
	Description         string      `json:"producto,omitempty"`
}

// Date returns the raw value of the named date field.
func (o Order) Date(f DateField) string {
	switch f {
	case DateCreated:
		return o.CreatedAt
	case DateDelivery:
		return o.DeliveryDate
	case DateRevisedDelivery:
		return o.RevisedDeliveryDate
	case DateFinished:
		return o.FinishedAt
	}
	return ""
}

// EffectiveDeliveryDate is the revised delivery date when one was set.
func (o Order) EffectiveDeliveryDate() string {
	if strings.TrimSpace(o.RevisedDeliveryDate) != "" {
		return o.RevisedDeliveryDate
	}
	return o.DeliveryDate
}

func (o Order) HasClichePurchase() bool {
	return o.ClichePurchaseDate != nil && strings.TrimSpace(*o.ClichePurchaseDate) != ""
}

// IsReadyToProduction reports whether a preparation order sits in the
// "listo para producción" sub-stage.
func (o Order) IsReadyToProduction() bool {
	return o.Stage == StagePreparation && o.SubStage == StageReadyToProduction
}

// Fold trims, strips diacritics and upper-cases s.
func Fold(s string) string {
	// A transform.Transformer carries state, so each call builds its own chain.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(folder, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToUpper(out)
}
