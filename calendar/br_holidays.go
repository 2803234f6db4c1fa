package calendar

// brHolidayList covers the ANBIMA national-holiday set for the years
// exercised by the bundled index tables and the package's tests. Movable
// feasts (Carnival, Corpus Christi, Good Friday) are listed explicitly per
// year rather than computed.
var brHolidayList = []string{
	// 2021
	"2021-01-01", "2021-02-15", "2021-02-16", "2021-04-02", "2021-04-21",
	"2021-05-01", "2021-06-03", "2021-09-07", "2021-10-12", "2021-11-02",
	"2021-11-15", "2021-12-25",
	// 2022
	"2022-01-01", "2022-02-28", "2022-03-01", "2022-04-15", "2022-04-21",
	"2022-05-01", "2022-06-16", "2022-09-07", "2022-10-12", "2022-11-02",
	"2022-11-15", "2022-12-25",
	// 2023
	"2023-01-01", "2023-02-20", "2023-02-21", "2023-04-07", "2023-04-21",
	"2023-05-01", "2023-06-08", "2023-09-07", "2023-10-12", "2023-11-02",
	"2023-11-15", "2023-12-25",
	// 2024
	"2024-01-01", "2024-02-12", "2024-02-13", "2024-03-29", "2024-04-21",
	"2024-05-01", "2024-05-30", "2024-09-07", "2024-10-12", "2024-11-02",
	"2024-11-15", "2024-11-20", "2024-12-25",
	// 2025
	"2025-01-01", "2025-03-03", "2025-03-04", "2025-04-18", "2025-04-21",
	"2025-05-01", "2025-06-19", "2025-09-07", "2025-10-12", "2025-11-02",
	"2025-11-15", "2025-11-20", "2025-12-25",
	// 2026
	"2026-01-01", "2026-02-16", "2026-02-17", "2026-04-03", "2026-04-21",
	"2026-05-01", "2026-06-04", "2026-09-07", "2026-10-12", "2026-11-02",
	"2026-11-15", "2026-11-20", "2026-12-25",
}
