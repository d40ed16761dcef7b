/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package recommendation

import (
	"fmt"
	"math"
	"strings"
)

// renderTemplate substitutes {{name}} placeholders with formatted values.
// Placeholders without a matching variable are left as-is.
func renderTemplate(template string, variables map[string]interface{}) string {
	rendered := template
	for name, value := range variables {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", formatTemplateValue(value))
	}
	return rendered
}

// formatTemplateValue picks a numeric format by magnitude so tiny rates and
// large absolute values both read naturally.
func formatTemplateValue(value interface{}) string {
	number, isNumber := value.(float64)
	if !isNumber {
		return fmt.Sprintf("%v", value)
	}
	magnitude := math.Abs(number)
	switch {
	case magnitude != 0 && magnitude < 0.01:
		return trimExponentZeros(fmt.Sprintf("%.2e", number))
	case magnitude < 1:
		return fmt.Sprintf("%.4f", number)
	case magnitude < 100:
		return fmt.Sprintf("%.2f", number)
	default:
		return fmt.Sprintf("%.0f", number)
	}
}

// trimExponentZeros turns Go's zero-padded exponent ("4.20e-03") into the
// compact form ("4.20e-3").
func trimExponentZeros(formatted string) string {
	idx := strings.IndexByte(formatted, 'e')
	if idx < 0 || idx+2 >= len(formatted) {
		return formatted
	}
	mantissa, sign, exponent := formatted[:idx], formatted[idx+1:idx+2], formatted[idx+2:]
	exponent = strings.TrimLeft(exponent, "0")
	if exponent == "" {
		exponent = "0"
	}
	return mantissa + "e" + sign + exponent
}
