package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"bankcompare/generator"
)

func main() {
	dataDir := flag.String("out", "./data", "каталог для демо-данных")
	banks := flag.String("banks", "sber,vtb,alphabank,gazprombank", "список банков через запятую")
	seed := flag.Uint64("seed", 0, "начальное значение генератора")
	flag.Parse()

	bankList := strings.Split(*banks, ",")
	for i := range bankList {
		bankList[i] = strings.TrimSpace(bankList[i])
	}

	gen := generator.New(*seed)
	if err := gen.WriteDataDir(*dataDir, bankList); err != nil {
		log.Fatalf("Ошибка генерации данных: %v", err)
	}

	fmt.Printf("Демо-данные записаны в %s для банков: %s\n", *dataDir, strings.Join(bankList, ", "))
}
