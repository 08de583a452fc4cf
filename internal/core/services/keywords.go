package services

// DefaultKeywords is the built-in dictionary of terms that mark a name as an
// educational institution. Entries are matched after normalisation, so
// case and punctuation do not matter.
var DefaultKeywords = []string{
	// Schools by level
	"TK", "PAUD", "KB",
	"SD", "SDN", "SDIT", "SDS",
	"SMP", "SMPN", "SMPIT", "SMPS",
	"SMA", "SMAN", "SMAIT", "SMAS",
	"SMK", "SMKN", "SMKS",
	"SLB",

	// Madrasah
	"MI", "MIN", "MTS", "MTSN", "MA", "MAN", "MADRASAH",
	"PESANTREN", "PONPES", "PONDOK PESANTREN",

	// Higher education
	"UNIVERSITAS", "UNIV", "INSTITUT", "POLITEKNIK", "POLTEK", "AKADEMI",
	"SEKOLAH TINGGI", "STIKES", "STIE", "STMIK", "STKIP", "STIT", "KAMPUS",

	// Courses and training
	"SEKOLAH", "BIMBEL", "LPK", "LKP", "KURSUS",

	// Public institutions named after their status
	"NEGERI",

	// English
	"SCHOOL", "COLLEGE", "ACADEMY", "UNIVERSITY", "KINDERGARTEN",
}
