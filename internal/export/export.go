// Package export renders fault records as downloadable tables.
package export

import (
	"strconv"

	"fault-service/internal/model"
)

// Header is the fixed column order of every export.
var Header = []string{
	"ID",
	"发现人员",
	"故障时间",
	"车辆信息",
	"错误类别",
	"解决状态",
	"报警描述",
	"解决办法",
	"处理记录",
	"责任人",
}

const timeLayout = "2006-01-02 15:04:05"

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	default:
		return "", false
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return "csv"
}

func row(r model.FaultReport) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.ReporterName,
		r.FaultTime.Format(timeLayout),
		r.VehicleID,
		string(r.Category),
		string(r.Status),
		r.Description,
		r.Solution,
		r.ResolutionLog,
		r.ResponsiblePerson,
	}
}
