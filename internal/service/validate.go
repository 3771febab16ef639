package service

import (
	"fmt"

	"github.com/create141/Create-fi/pkg/errors"

	"github.com/shopspring/decimal"
)

// maxAmountDigits 链上金额精度上限（decimal(78,18)）
const maxAmountDigits = 78

// validateAmount 校验十进制字符串金额：可解析、为正、精度不超限
// 金额始终以字符串保存，避免浮点精度丢失
func validateAmount(field, value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return errors.New(errors.ErrValidation, fmt.Sprintf("%s must be a decimal string", field), err)
	}
	if d.Sign() <= 0 {
		return errors.New(errors.ErrValidation, fmt.Sprintf("%s must be positive", field), nil)
	}
	if len(d.Coefficient().String()) > maxAmountDigits {
		return errors.New(errors.ErrValidation, fmt.Sprintf("%s exceeds supported precision", field), nil)
	}
	return nil
}

func validateToken(field, value string) error {
	if value == "" {
		return errors.New(errors.ErrValidation, fmt.Sprintf("%s is required", field), nil)
	}
	return nil
}

func validateChainID(chainID int64) error {
	if chainID <= 0 {
		return errors.New(errors.ErrValidation, "chain_id must be positive", nil)
	}
	return nil
}
