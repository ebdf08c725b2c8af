package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

type createGameRequest struct {
	Theme string `json:"theme"`
}

func (that *Server) createGame(ctx echo.Context) error {
	var req createGameRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := that.games.CreateGame(ctx.Request().Context(), req.Theme)
	if err != nil {
		return that.httpError("createGame", err)
	}

	return ctx.JSON(http.StatusCreated, result)
}

func (that *Server) getGame(ctx echo.Context) error {
	result, err := that.games.GetGame(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.httpError("getGame", err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (that *Server) getBoard(ctx echo.Context) error {
	view, err := that.games.GetBoard(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return that.httpError("getBoard", err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// replaceGame stores a snapshot pushed by a peer over the current one and
// forwards it to the connected players.
func (that *Server) replaceGame(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := that.games.ReplaceSnapshot(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return that.httpError("replaceGame", err)
	}

	that.publisher.Publish(result.GameID, result)

	return ctx.JSON(http.StatusOK, result)
}

func (that *Server) deleteGame(ctx echo.Context) error {
	if err := that.games.DeleteGame(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return that.httpError("deleteGame", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (that *Server) httpError(method string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrInvalidPayload):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	that.logger.Error("request failed", "method", method, "error", err)

	return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
}
