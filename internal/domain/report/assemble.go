package report

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

var settlementRe = regexp.MustCompile(`(\d{2}\.\d{2})`)

// ContractMetadata datos del contrato tomados de la hoja de autores.
type ContractMetadata struct {
	ContractID     string
	Nick           string
	Rent           decimal.NullDecimal
	SettlementDate string
}

// MetadataFromRow extrae alquiler y fecha de liquidación (primer dd.mm de los comentarios).
func MetadataFromRow(row entity.AuthorRow) ContractMetadata {
	md := ContractMetadata{
		ContractID: strings.TrimSpace(row.ContractID),
		Nick:       strings.TrimSpace(row.Nick),
		Rent:       ParseOptionalAmount(row.Rent),
	}
	if m := settlementRe.FindStringSubmatch(row.Comments); m != nil {
		md.SettlementDate = m[1]
	}
	return md
}

// ContractIndex indexa las filas por contrato. Si un contrato se repite gana la primera fila.
func ContractIndex(rows []entity.AuthorRow) map[string]ContractMetadata {
	idx := make(map[string]ContractMetadata, len(rows))
	for _, row := range rows {
		md := MetadataFromRow(row)
		if md.ContractID == "" {
			continue
		}
		if _, exists := idx[md.ContractID]; exists {
			continue
		}
		idx[md.ContractID] = md
	}
	return idx
}

// Assemble adjunta alquiler y fecha de liquidación a cada grupo. Con contractID no vacío
// devuelve como mucho un grupo.
func Assemble(groups *GroupSet, contracts map[string]ContractMetadata, contractID string) []*GroupAggregate {
	all := groups.Groups()
	for _, g := range all {
		md, ok := contracts[strings.TrimSpace(g.GroupID)]
		if !ok {
			g.Rent = decimal.NullDecimal{}
			g.SettlementDate = ""
			continue
		}
		g.Rent = md.Rent
		g.SettlementDate = md.SettlementDate
	}

	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		return all
	}
	for _, g := range all {
		if strings.TrimSpace(g.GroupID) == contractID {
			return []*GroupAggregate{g}
		}
	}
	return []*GroupAggregate{}
}
