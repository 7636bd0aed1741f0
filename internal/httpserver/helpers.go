package httpserver

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

func getUserID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(v), nil
}
