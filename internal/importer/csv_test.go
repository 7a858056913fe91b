package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestCSV_Parse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []transaction.Record
		wantErr error
	}

	tests := []testCase{
		{
			name: "LedgerExport",
			input: `date,type,category,amount_paisa,description
2024-01-02,expense,Food,1250,"lunch, with team"
2024-01-03,income,Salary,500000,
`,
			want: []transaction.Record{
				{Date: "2024-01-02", Type: "expense", Category: "Food", Amount: "1250", Description: "lunch, with team"},
				{Date: "2024-01-03", Type: "income", Category: "Salary", Amount: "500000", Description: ""},
			},
		},
		{
			name: "LedgerColumnsReorderedAndUpperCase",
			input: `Amount_Paisa,Category,Type,Date
99,Food,expense,2024-02-01
`,
			want: []transaction.Record{
				{Date: "2024-02-01", Type: "expense", Category: "Food", Amount: "99"},
			},
		},
		{
			name: "LedgerInvalidRowsKeptForReporting",
			input: `date,type,category,amount_paisa,description
not-a-date,expense,Food,-5,bad
,,,,
2024-01-02,expense,Food
`,
			want: []transaction.Record{
				{Date: "not-a-date", Type: "expense", Category: "Food", Amount: "-5", Description: "bad"},
				{Date: "2024-01-02", Type: "expense", Category: "Food"},
			},
		},
		{
			name: "BankConta",
			input: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Dados da consulta
Período;Últimos 90 dias
Intervalo de;01-01-2026 a 31-01-2026
Tipos de movimento;Todos

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`,
			want: []transaction.Record{
				{Date: "2026-01-30", Type: "expense", Category: "Other", Amount: "58874", Description: "INSTITUTO GESTAO FINA"},
				{Date: "2026-01-09", Type: "income", Category: "Other", Amount: "860852", Description: "TFI Wise"},
			},
		},
		{
			name: "BankExtrato",
			input: `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`,
			want: []transaction.Record{
				{Date: "2026-02-13", Type: "expense", Category: "Other", Amount: "60813", Description: "PAGAMENTO TSU"},
				{Date: "2026-02-04", Type: "income", Category: "Other", Amount: "432406", Description: "TFI Wise"},
			},
		},
		{
			name: "BankCartao",
			input: `Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;UBER   *TRIP ;47,91 ; ;
17-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`,
			want: []transaction.Record{
				{Date: "2025-12-16", Type: "expense", Category: "Other", Amount: "4791", Description: "UBER   *TRIP"},
				{Date: "2025-12-17", Type: "income", Category: "Other", Amount: "2500", Description: "REFUND AMAZON"},
			},
		},
		{
			name: "BankSkipsFooterAndZeroRows",
			input: `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
31-01-2026;NOTHING;0,00
Totais;;;;
`,
			want: []transaction.Record{
				{Date: "2026-01-30", Type: "expense", Category: "Other", Amount: "123456789", Description: "BIG TRANSFER"},
			},
		},
		{
			name:  "HeaderOnly",
			input: "date,type,category,amount_paisa,description\n",
			want:  nil,
		},
		{
			name: "BankMissingDescription",
			input: `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`,
			wantErr: core.ErrValidation,
		},
		{
			name:    "UnknownHeader",
			input:   "when,what,how much\n2024-01-01,x,1\n",
			wantErr: core.ErrValidation,
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: core.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewCSV("Other").Parse(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSV_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	got, err := importer.NewCSV("Other").Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ CENTRAL", got[0].Description)
	assert.Equal(t, "1000", got[0].Amount)
}

func TestCSV_FeedsImportBatch(t *testing.T) {
	records, err := importer.NewCSV("Other").Parse(strings.NewReader(
		"date,type,category,amount_paisa,description\n2024-01-02,expense,Food,1250,lunch\n2024-01-02,expense,Food,0,free\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	tx, err := records[0].ToTransaction()
	require.NoError(t, err)
	assert.Equal(t, int64(1250), tx.Amount)

	_, err = records[1].ToTransaction()
	assert.ErrorIs(t, err, core.ErrValidation)
}
